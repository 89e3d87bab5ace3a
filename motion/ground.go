package motion

// DefaultGroundCategory is the collision category ground geometry is tagged with.
const DefaultGroundCategory uint = 1 << 1

// GroundFilter selects which collision categories count as ground.
type GroundFilter struct {
	Mask uint
}

// Accepts reports whether a shape in the given categories counts as ground.
func (f GroundFilter) Accepts(categories uint) bool {
	return f.Mask&categories != 0
}

// GroundProbe is the collision query the sensor runs once per tick.
type GroundProbe interface {
	ProbeGround(origin, direction Vec2, filter GroundFilter, distance float64) int
}

// GroundProbeFunc adapts a function to GroundProbe.
type GroundProbeFunc func(origin, direction Vec2, filter GroundFilter, distance float64) int

func (f GroundProbeFunc) ProbeGround(origin, direction Vec2, filter GroundFilter, distance float64) int {
	return f(origin, direction, filter, distance)
}

// GroundSensor holds the raw grounded flag for the current tick. It has no
// hysteresis; callers that want coyote time wrap the flag themselves.
type GroundSensor struct {
	ProbeDistance float64
	Filter        GroundFilter

	grounded bool
	contacts int
}

func NewGroundSensor(cfg SensorConfig) (*GroundSensor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GroundSensor{ProbeDistance: cfg.ProbeDistance, Filter: cfg.Filter}, nil
}

// Refresh runs the probe from origin and stores the result.
func (s *GroundSensor) Refresh(probe GroundProbe, origin Vec2) bool {
	if s == nil {
		return false
	}
	s.contacts = 0
	if probe != nil {
		s.contacts = probe.ProbeGround(origin, Down, s.Filter, s.ProbeDistance)
	}
	s.grounded = s.contacts > 0
	return s.grounded
}

// Set stores a result computed by an external query.
func (s *GroundSensor) Set(contacts int) {
	if s == nil {
		return
	}
	s.contacts = contacts
	s.grounded = contacts > 0
}

func (s *GroundSensor) IsGrounded() bool {
	return s != nil && s.grounded
}

func (s *GroundSensor) Contacts() int {
	if s == nil {
		return 0
	}
	return s.contacts
}

// Reconfigure swaps the probe settings; the current flag is kept until the next Refresh.
func (s *GroundSensor) Reconfigure(cfg SensorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.ProbeDistance = cfg.ProbeDistance
	s.Filter = cfg.Filter
	return nil
}

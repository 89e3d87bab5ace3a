package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/motion"
)

type GroundSensor struct {
	Sensor *motion.GroundSensor
	// Probe is the last query box, kept for the debug overlay.
	Probe    cp.BB
	HasProbe bool
}

var GroundSensorComponent = NewComponent[GroundSensor]()

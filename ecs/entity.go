package ecs

import "fmt"

// Entity is a handle with the slot index in the low half and the slot's
// generation in the high half. A handle stops resolving once its slot is
// recycled.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const (
	idBits = 32
	idMask = 1<<idBits - 1
)

// NoEntity is the zero handle. CreateEntity never returns it.
const NoEntity Entity = 0

func newEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<idBits | uint64(id))
}

func (e Entity) id() entityID { return entityID(uint64(e) & idMask) }
func (e Entity) generation() generation { return generation(uint64(e) >> idBits) }
func (e Entity) Valid() bool { return e.id() != 0 }

func (e Entity) String() string {
	if !e.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d#%d", e.id(), e.generation())
}

package ecs

// MaxPendingEvents bounds the queue when nobody drains it, as in headless
// runs that never look at events. The oldest events go first.
const MaxPendingEvents = 4096

// Event is something a system observed. Tick is stamped on Push with the
// world tick the event happened in.
type Event struct {
	Tick   uint64
	Type   string
	Entity Entity
	Data   any
}

// EventQueue is a FIFO drained by the frame loop after the pipeline ran.
type EventQueue struct {
	tick    uint64
	items   []Event
	dropped int
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	evt.Tick = q.tick
	if len(q.items) >= MaxPendingEvents {
		n := copy(q.items, q.items[1:])
		q.items = q.items[:n]
		q.dropped++
	}
	q.items = append(q.items, evt)
}

// Drain returns the pending events oldest first and empties the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Dropped counts events discarded because the queue was full.
func (q *EventQueue) Dropped() int {
	if q == nil {
		return 0
	}
	return q.dropped
}

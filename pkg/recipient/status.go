package recipient

import "sync/atomic"

// Status is the delivery flag of one recipient. It starts undelivered and can
// be marked delivered once; there is no way to reset it.
type Status struct {
	delivered atomic.Bool
}

// MarkDelivered records a confirmed delivery.
// It reports whether this call changed the flag.
func (s *Status) MarkDelivered() bool {
	return s.delivered.CompareAndSwap(false, true)
}

// Delivered reports whether delivery was confirmed.
func (s *Status) Delivered() bool {
	return s.delivered.Load()
}

// Tracker holds one Status per recipient of a batch, by index.
type Tracker struct {
	cells []Status
}

// NewTracker allocates undelivered cells for every recipient in b.
func NewTracker(b *Batch) *Tracker {
	return &Tracker{cells: make([]Status, b.Len())}
}

// Cell returns the status of the i-th recipient.
func (t *Tracker) Cell(i int) *Status {
	return &t.cells[i]
}

// Delivered counts recipients marked delivered.
func (t *Tracker) Delivered() int {
	n := 0
	for i := range t.cells {
		if t.cells[i].Delivered() {
			n++
		}
	}
	return n
}

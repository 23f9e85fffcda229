package translator

import "sync/atomic"

// Ticket identifies one lookup started on a Slot.
type Ticket struct {
	Text string
	seq  uint64
}

// Slot drops results that belong to a superseded lookup. A new Begin makes
// every earlier ticket stale.
type Slot struct {
	seq atomic.Uint64
}

func (s *Slot) Begin(text string) Ticket {
	return Ticket{Text: text, seq: s.seq.Add(1)}
}

// Current reports whether t is still the latest ticket.
func (s *Slot) Current(t Ticket) bool {
	return t.seq == s.seq.Load()
}

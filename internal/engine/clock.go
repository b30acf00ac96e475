package engine

// Clock is the engine's logical tick counter.
//
// Every tick is stamped with a strictly increasing sequence number. All
// ordering inside the engine is logical: diagnostics, trace records, and
// command streams reference tick numbers, never wall-clock timestamps.
// This is what lets replay compare two runs tick by tick.
//
// The engine is single-threaded, so no synchronization is needed.
type Clock struct {
	seq int64
}

// NewClock creates a clock starting at 0; the first tick is 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next tick number and advances the clock.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the latest tick number without advancing.
func (c *Clock) Current() int64 {
	return c.seq
}

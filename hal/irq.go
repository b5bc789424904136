package hal

import "sync/atomic"

// IRQ is a single level-triggered interrupt line with a core-wide mask.
//
// The tick source raises the line; the running task takes the interrupt at
// its next call to Service. A tick raised while one is already pending is
// lost, as with a timer compare match that is not acknowledged in time.
type IRQ struct {
	masked  atomic.Bool
	pending atomic.Bool
	handler func()

	raised atomic.Uint64
	taken  atomic.Uint64
}

// NewIRQ returns an interrupt line that starts masked, as after reset.
func NewIRQ() *IRQ {
	c := &IRQ{}
	c.masked.Store(true)
	return c
}

// SetHandler installs the interrupt handler. It must be called before the
// line is first enabled.
func (c *IRQ) SetHandler(fn func()) { c.handler = fn }

func (c *IRQ) Enable()       { c.masked.Store(false) }
func (c *IRQ) Disable()      { c.masked.Store(true) }
func (c *IRQ) Enabled() bool { return !c.masked.Load() }

// Raise marks the line pending.
func (c *IRQ) Raise() {
	c.raised.Add(1)
	c.pending.Store(true)
}

// Service takes a pending interrupt if the line is unmasked. The handler runs
// masked and the mask is lifted again when it returns.
func (c *IRQ) Service() bool {
	if c.masked.Load() {
		return false
	}
	if !c.pending.CompareAndSwap(true, false) {
		return false
	}
	c.taken.Add(1)
	c.masked.Store(true)
	if c.handler != nil {
		c.handler()
	}
	c.masked.Store(false)
	return true
}

// Counts returns how many interrupts were raised and how many were taken.
func (c *IRQ) Counts() (raised, taken uint64) {
	return c.raised.Load(), c.taken.Load()
}

package sched

// Switcher is the context-switch primitive.
//
// Switch saves the caller's callee-saved registers into prev, loads next's
// saved context and transfers control to it. It returns only when prev is
// dispatched again. It is called with the preemption guard held.
type Switcher interface {
	Switch(prev, next *Task)
}

// Pages hands out zero-filled, page-aligned blocks of PageSize bytes.
type Pages interface {
	AllocPage() (base uintptr, ok bool)
}

// Interrupts masks and unmasks interrupt delivery on the core.
type Interrupts interface {
	Enable()
	Disable()
}

// Logger receives debug records. It never affects scheduling.
type Logger interface {
	Debugf(format string, args ...any)
}

// Observer is notified of scheduling events.
type Observer interface {
	OnCreate(h Handle, t *Task)
	OnSwitch(prev, next Handle, reason string)
	OnDecay(pass uint64)
}

type nopInterrupts struct{}

func (nopInterrupts) Enable()  {}
func (nopInterrupts) Disable() {}

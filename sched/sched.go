// Package sched implements the kernel's task scheduler: a fixed task table, a
// nesting preemption guard, the task factory and the priority-decay selection
// algorithm driven by the timer tick.
//
// The scheduler is single-core and holds no locks. Every method must be called
// from the task that currently owns the CPU; the only concurrent input is the
// timer interrupt, which reaches the scheduler through TimerTick on the
// running task.
package sched

// Config wires a Scheduler to its collaborators.
type Config struct {
	Switcher   Switcher
	Pages      Pages
	Interrupts Interrupts

	// TrampolinePC is the resume address of a task that has never run.
	TrampolinePC uint64

	Log      Logger
	Observer Observer
}

// Stats counts scheduler activity since boot.
type Stats struct {
	Ticks      uint64
	Suppressed uint64
	Switches   uint64
	Decays     uint64
}

// Scheduler owns the task table and the current task.
type Scheduler struct {
	table Table
	funcs FuncTable

	cpu        Switcher
	pages      Pages
	irq        Interrupts
	trampoline uint64

	log Logger
	obs Observer

	stats Stats
}

// New creates a scheduler whose slot 0 holds the init task, which is current.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		cpu:        cfg.Switcher,
		pages:      cfg.Pages,
		irq:        cfg.Interrupts,
		trampoline: cfg.TrampolinePC,
		log:        cfg.Log,
		obs:        cfg.Observer,
	}
	if s.irq == nil {
		s.irq = nopInterrupts{}
	}
	h, _ := s.table.Insert(Task{State: StateRunnable, Priority: initPriority})
	s.table.SetCurrent(h)
	return s
}

// Register adds an entry function usable with CopyProcess.
func (s *Scheduler) Register(fn Func) FuncPtr {
	return s.funcs.Register(fn)
}

// Table returns the task table.
func (s *Scheduler) Table() *Table { return &s.table }

// Task returns the record in slot h, or nil.
func (s *Scheduler) Task(h Handle) *Task { return s.table.Get(h) }

// Current returns the running task's handle.
func (s *Scheduler) Current() Handle { return s.table.Current() }

func (s *Scheduler) current() *Task { return s.table.Get(s.table.Current()) }

// Stats returns the activity counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// Snapshot copies the scheduling fields of every task.
func (s *Scheduler) Snapshot() []TaskInfo {
	out := make([]TaskInfo, 0, s.table.Len())
	cur := s.table.Current()
	s.table.Range(func(h Handle, t *Task) bool {
		out = append(out, TaskInfo{
			Handle:       h,
			State:        t.State,
			Counter:      t.Counter,
			Priority:     t.Priority,
			PreemptCount: t.PreemptCount,
			SP:           t.CPU.SP,
			Current:      h == cur,
		})
		return true
	})
	return out
}

func (s *Scheduler) debugf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.Debugf(format, args...)
}

func (s *Scheduler) dumpTasks() {
	if s.log == nil {
		return
	}
	s.log.Debugf("tasks:")
	s.table.Range(func(h Handle, t *Task) bool {
		s.log.Debugf("\tpid=%d, sp=0x%x", h, t.CPU.SP)
		return true
	})
}

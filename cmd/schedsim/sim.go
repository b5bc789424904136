package main

import (
	"fmt"
	"io"
	"strings"

	"pios/arch"
	"pios/hal"
	"pios/sched"
)

type options struct {
	Ticks      int
	Priorities []int64
	// Yields lists ticks before which the running task calls schedule().
	Yields []int64
	Log    sched.Logger
}

// switcher stands in for the context switch. A task dispatched for the first
// time passes through the trampoline, which releases its creation guard.
type switcher struct {
	s *sched.Scheduler
}

func (w *switcher) Switch(prev, next *sched.Task) {
	prev.CPU.PC = arch.ResumePC
	if next.CPU.PC == arch.RetFromForkPC {
		next.CPU.PC = arch.ResumePC
		w.s.ScheduleTail()
	}
}

func simulate(out io.Writer, opts options) error {
	if opts.Ticks < 0 {
		return fmt.Errorf("ticks must be >= 0, got %d", opts.Ticks)
	}
	w := &switcher{}
	s := sched.New(sched.Config{
		Switcher:     w,
		Pages:        hal.NewPageAllocator(len(opts.Priorities)),
		TrampolinePC: arch.RetFromForkPC,
		Log:          opts.Log,
	})
	w.s = s

	idle := s.Register(func(uint64) {})
	for i, p := range opts.Priorities {
		if _, err := s.CopyProcess(idle, 0, p); err != nil {
			return fmt.Errorf("task %d (priority %d): %w", i+1, p, err)
		}
	}

	yield := make(map[int64]bool, len(opts.Yields))
	for _, y := range opts.Yields {
		yield[y] = true
	}

	fmt.Fprintf(out, "%-6s %-4s %s\n", "tick", "pid", "counters")
	fmt.Fprintf(out, "%-6s %-4d %s\n", "boot", s.Current(), counters(s))

	// kernel_main yields as soon as the tasks exist.
	s.Schedule()
	fmt.Fprintf(out, "%-6s %-4d %s\n", "sched", s.Current(), counters(s))

	for tick := 1; tick <= opts.Ticks; tick++ {
		if yield[int64(tick)] {
			s.Schedule()
		}
		s.TimerTick()
		fmt.Fprintf(out, "%-6d %-4d %s\n", tick, s.Current(), counters(s))
	}

	st := s.Stats()
	fmt.Fprintf(out, "ticks=%d switches=%d decays=%d suppressed=%d\n", st.Ticks, st.Switches, st.Decays, st.Suppressed)
	return nil
}

func counters(s *sched.Scheduler) string {
	var b strings.Builder
	for i, t := range s.Snapshot() {
		if i > 0 {
			b.WriteByte(' ')
		}
		mark := ""
		if t.Current {
			mark = "*"
		}
		fmt.Fprintf(&b, "%d:%d%s", t.Handle, t.Counter, mark)
	}
	return b.String()
}

package sched

// Pick returns the runnable task with the largest counter, preferring the
// lowest slot on ties. When the best counter is zero every task's counter is
// decayed to counter/2 + priority and the scan repeats. The init task has a
// positive priority, so the loop ends after at most a few passes.
func (s *Scheduler) Pick() Handle {
	for {
		c := int64(-1)
		next := Handle(0)
		s.table.Range(func(h Handle, t *Task) bool {
			if t.State == StateRunnable && t.Counter > c {
				c = t.Counter
				next = h
			}
			return true
		})
		if c != 0 {
			return next
		}
		s.decay()
	}
}

func (s *Scheduler) decay() {
	s.table.Range(func(_ Handle, t *Task) bool {
		t.Counter = (t.Counter >> 1) + t.Priority
		return true
	})
	s.stats.Decays++
	if s.obs != nil {
		s.obs.OnDecay(s.stats.Decays)
	}
}

// SelectNext picks the next task and dispatches it. It returns when the
// calling task is dispatched again, and releases the guard it took on that
// task.
func (s *Scheduler) SelectNext(reason string) {
	self := s.table.Current()
	s.PreemptDisable()
	next := s.Pick()
	s.SwitchTo(next, reason)
	s.preemptEnable(self)
}

// Schedule yields the CPU. The caller's counter is zeroed first so it cannot
// win again on leftover credit.
func (s *Scheduler) Schedule() {
	s.current().Counter = 0
	s.SelectNext("schedule")
}

// SwitchTo makes next the current task and transfers control to it. It does
// nothing when next is already current.
func (s *Scheduler) SwitchTo(next Handle, reason string) {
	prev := s.table.Current()
	if next == prev {
		return
	}
	nt := s.table.Get(next)
	if nt == nil {
		return
	}
	pt := s.table.Get(prev)

	s.debugf("_schedule(%s) switch_to next task (pid=%d)", reason, next)
	s.dumpTasks()

	s.table.SetCurrent(next)
	s.stats.Switches++
	if s.obs != nil {
		s.obs.OnSwitch(prev, next, reason)
	}
	if s.cpu != nil {
		s.cpu.Switch(pt, nt)
	}
}

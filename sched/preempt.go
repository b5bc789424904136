package sched

// PreemptDisable enters a region in which the timer tick may not reschedule
// the current task. Regions nest.
func (s *Scheduler) PreemptDisable() {
	s.current().PreemptCount++
}

// PreemptEnable leaves the innermost region entered with PreemptDisable.
func (s *Scheduler) PreemptEnable() {
	s.preemptEnable(s.table.Current())
}

func (s *Scheduler) preemptEnable(h Handle) {
	t := s.table.Get(h)
	if t == nil {
		return
	}
	if t.PreemptCount == 0 {
		s.debugf("preempt_enable: unbalanced on pid=%d", h)
		return
	}
	t.PreemptCount--
}

// Preemptible reports whether the current task may be rescheduled by a tick.
func (s *Scheduler) Preemptible() bool {
	return s.current().PreemptCount == 0
}

// ScheduleTail releases the guard a new task is created with. The trampoline
// calls it on first dispatch, before running task code.
func (s *Scheduler) ScheduleTail() {
	s.PreemptEnable()
}

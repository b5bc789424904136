package sched

// TimerTick is the timer interrupt hook. It is called once per tick on the
// running task with interrupts masked.
//
// The current task loses one unit of credit. The counter stops at zero, so a
// task ticked while guarded never goes negative. Once the credit is gone, and the
// task is not inside a preemption-disabled region, the next task is selected
// with interrupts unmasked so other interrupt work is not held off by the scan.
func (s *Scheduler) TimerTick() {
	s.stats.Ticks++
	t := s.current()
	if t.Counter > 0 {
		t.Counter--
	}
	if t.Counter > 0 {
		return
	}
	if t.PreemptCount > 0 {
		s.stats.Suppressed++
		return
	}
	t.Counter = 0
	s.irq.Enable()
	s.SelectNext("irq_handler")
	s.irq.Disable()
}

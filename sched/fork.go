package sched

// CopyProcess creates a runnable task that will call fn(arg) on first
// dispatch. The new task's stack is one freshly allocated page.
//
// On failure the task table is left unchanged.
func (s *Scheduler) CopyProcess(fn FuncPtr, arg uint64, priority int64) (Handle, error) {
	s.PreemptDisable()
	defer s.PreemptEnable()

	if priority < 0 {
		return NoHandle, ErrBadPriority
	}
	if _, ok := s.funcs.Lookup(fn); !ok {
		return NoHandle, ErrBadEntry
	}
	if s.table.Full() {
		return NoHandle, ErrTableFull
	}
	if s.pages == nil {
		return NoHandle, ErrOutOfMemory
	}
	page, ok := s.pages.AllocPage()
	if !ok {
		return NoHandle, ErrOutOfMemory
	}

	var t Task
	t.State = StateRunnable
	t.Priority = priority
	t.Counter = priority
	t.PreemptCount = 1 // held until ScheduleTail
	t.Page = page
	t.CPU.X19 = uint64(fn)
	t.CPU.X20 = arg
	t.CPU.PC = s.trampoline
	t.CPU.SP = uint64(page) + PageSize

	h, ok := s.table.Insert(t)
	if !ok {
		return NoHandle, ErrTableFull
	}

	s.debugf("----------- Task created -----------")
	s.debugf("struct task pid=%d allocated at 0x%08x", h, page)
	s.debugf("cpu_context.x19 = 0x%08x (fn)", t.CPU.X19)
	s.debugf("cpu_context.x20 = 0x%08x (arg)", t.CPU.X20)
	s.debugf("cpu_context.pc  = 0x%08x (ret_from_fork)", t.CPU.PC)
	s.debugf("cpu_context.sp  = 0x%08x (sp)", t.CPU.SP)
	if s.obs != nil {
		s.obs.OnCreate(h, s.table.Get(h))
	}
	return h, nil
}

// RetFromFork is the trampoline body of a newly dispatched task t: it releases
// the creation guard and runs the entry function. An entry that returns leaves
// the task yielding forever, since tasks have no exit path.
func (s *Scheduler) RetFromFork(t *Task) {
	s.ScheduleTail()
	if fn, ok := s.funcs.Lookup(FuncPtr(t.CPU.X19)); ok {
		fn(t.CPU.X20)
	}
	s.debugf("pid=%d returned from its entry", s.table.Current())
	for {
		s.Schedule()
	}
}

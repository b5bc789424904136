package sched

// Table is a fixed-capacity arena of task records plus the current handle.
//
// Records never move, so a *Task obtained from Get stays valid for the life
// of the table.
type Table struct {
	tasks   [NumTasks]Task
	used    [NumTasks]bool
	count   int
	current Handle
}

// Insert copies t into the first free slot.
func (tb *Table) Insert(t Task) (Handle, bool) {
	for i := 0; i < NumTasks; i++ {
		if tb.used[i] {
			continue
		}
		tb.tasks[i] = t
		tb.used[i] = true
		tb.count++
		return Handle(i), true
	}
	return NoHandle, false
}

// Get returns the task in slot h, or nil if the slot is empty.
func (tb *Table) Get(h Handle) *Task {
	if int(h) >= NumTasks || !tb.used[h] {
		return nil
	}
	return &tb.tasks[h]
}

// Range calls fn for every occupied slot in slot order until fn returns false.
func (tb *Table) Range(fn func(h Handle, t *Task) bool) {
	for i := 0; i < NumTasks; i++ {
		if !tb.used[i] {
			continue
		}
		if !fn(Handle(i), &tb.tasks[i]) {
			return
		}
	}
}

// Current returns the handle of the running task.
func (tb *Table) Current() Handle { return tb.current }

// SetCurrent records h as the running task. Empty slots are ignored.
func (tb *Table) SetCurrent(h Handle) {
	if tb.Get(h) == nil {
		return
	}
	tb.current = h
}

// Len returns the number of occupied slots.
func (tb *Table) Len() int { return tb.count }

// Full reports whether every slot is occupied.
func (tb *Table) Full() bool { return tb.count >= NumTasks }

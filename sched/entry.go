package sched

// Func is a task entry point. It receives the argument passed to CopyProcess.
type Func func(arg uint64)

// FuncPtr is a task entry reference small enough to live in a register slot.
// Zero is never a valid FuncPtr.
type FuncPtr uint64

// FuncTable maps FuncPtr values to entry functions.
type FuncTable struct {
	fns []Func
}

// Register adds fn and returns its FuncPtr.
func (ft *FuncTable) Register(fn Func) FuncPtr {
	if fn == nil {
		return 0
	}
	ft.fns = append(ft.fns, fn)
	return FuncPtr(len(ft.fns))
}

// Lookup returns the function registered under p.
func (ft *FuncTable) Lookup(p FuncPtr) (Func, bool) {
	if p == 0 || uint64(p) > uint64(len(ft.fns)) {
		return nil, false
	}
	return ft.fns[p-1], true
}

package sched

import "errors"

var (
	// ErrOutOfMemory is returned when the page allocator has no free page.
	ErrOutOfMemory = errors.New("sched: out of memory")

	// ErrTableFull is returned when all task slots are occupied.
	ErrTableFull = errors.New("sched: task table full")

	ErrBadPriority = errors.New("sched: negative priority")
	ErrBadEntry    = errors.New("sched: unregistered entry function")
)

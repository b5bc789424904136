// Package arch provides the context-switch primitive for the scheduler.
//
// Each task runs on its own goroutine and only the goroutine holding the CPU
// executes; Switch hands the CPU to the next task and parks the caller until
// it is dispatched again. A task that has never run is started at the
// trampoline on its first dispatch.
package arch

import (
	"fmt"
	"sync"

	"pios/sched"
)

const (
	// RetFromForkPC is the resume address of a task that has never run.
	RetFromForkPC = 0x0008_0800

	// ResumePC marks a context saved by Switch: control resumes after the
	// switch call.
	ResumePC = 0x0008_0900
)

type thread struct {
	wake chan struct{}
}

// CPU implements sched.Switcher.
type CPU struct {
	mu      sync.Mutex
	threads map[*sched.Task]*thread
	entry   func(*sched.Task)
}

// NewCPU returns a CPU whose trampoline runs entry on a task's first dispatch.
// The goroutine that first switches away is adopted as the initial task.
func NewCPU(entry func(*sched.Task)) *CPU {
	return &CPU{
		threads: make(map[*sched.Task]*thread),
		entry:   entry,
	}
}

// SetEntry replaces the trampoline body. It must be called before the first
// dispatch of a new task.
func (c *CPU) SetEntry(entry func(*sched.Task)) {
	c.mu.Lock()
	c.entry = entry
	c.mu.Unlock()
}

// TrampolinePC returns the program counter new tasks are created with.
func (c *CPU) TrampolinePC() uint64 { return RetFromForkPC }

// Switch saves prev, resumes next and blocks until prev is resumed.
func (c *CPU) Switch(prev, next *sched.Task) {
	if prev == next {
		return
	}

	c.mu.Lock()
	pt := c.threadLocked(prev)
	nt, started := c.threads[next]
	if !started {
		if next.CPU.PC != RetFromForkPC {
			c.mu.Unlock()
			panic(fmt.Sprintf("arch: switch to task with no saved context (pc=0x%x)", next.CPU.PC))
		}
		nt = &thread{wake: make(chan struct{}, 1)}
		c.threads[next] = nt
	}
	entry := c.entry
	c.mu.Unlock()

	prev.CPU.PC = ResumePC
	if started {
		nt.wake <- struct{}{}
	} else {
		go c.start(next, entry)
	}
	<-pt.wake
}

func (c *CPU) start(t *sched.Task, entry func(*sched.Task)) {
	t.CPU.PC = ResumePC
	if entry != nil {
		entry(t)
	}
	// Tasks have no exit path; a returning trampoline keeps its CPU forever.
	select {}
}

func (c *CPU) threadLocked(t *sched.Task) *thread {
	th, ok := c.threads[t]
	if !ok {
		th = &thread{wake: make(chan struct{}, 1)}
		c.threads[t] = th
	}
	return th
}

// Threads returns the number of task goroutines known to the CPU.
func (c *CPU) Threads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.threads)
}

package arch

import (
	"sync"
	"testing"

	"pios/sched"
)

func TestSwitchStartsNewTaskAtTrampoline(t *testing.T) {
	var initTask, task sched.Task
	task.CPU.PC = RetFromForkPC

	done := make(chan *sched.Task, 1)
	var cpu *CPU
	cpu = NewCPU(func(self *sched.Task) {
		done <- self
		cpu.Switch(self, &initTask)
	})

	cpu.Switch(&initTask, &task)

	if got := <-done; got != &task {
		t.Fatalf("entry ran with %p, want %p", got, &task)
	}
	if initTask.CPU.PC != ResumePC {
		t.Fatalf("prev PC = 0x%x, want 0x%x", initTask.CPU.PC, ResumePC)
	}
	if task.CPU.PC != ResumePC {
		t.Fatalf("next PC = 0x%x, want 0x%x", task.CPU.PC, ResumePC)
	}
	if got := cpu.Threads(); got != 2 {
		t.Fatalf("Threads() = %d, want 2", got)
	}
}

func TestSwitchPingPong(t *testing.T) {
	var initTask, task sched.Task
	task.CPU.PC = RetFromForkPC

	var (
		mu    sync.Mutex
		trace []string
	)
	record := func(s string) {
		mu.Lock()
		trace = append(trace, s)
		mu.Unlock()
	}

	var cpu *CPU
	cpu = NewCPU(func(self *sched.Task) {
		for i := 0; i < 3; i++ {
			record("task")
			cpu.Switch(self, &initTask)
		}
	})

	for i := 0; i < 3; i++ {
		record("init")
		cpu.Switch(&initTask, &task)
	}

	want := []string{"init", "task", "init", "task", "init", "task"}
	mu.Lock()
	defer mu.Unlock()
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestSwitchToSelfIsNoop(t *testing.T) {
	cpu := NewCPU(nil)
	var task sched.Task
	cpu.Switch(&task, &task)
	if got := cpu.Threads(); got != 0 {
		t.Fatalf("Threads() = %d, want 0", got)
	}
}

func TestSwitchPanicsWithoutContext(t *testing.T) {
	cpu := NewCPU(nil)
	var initTask, task sched.Task

	defer func() {
		if recover() == nil {
			t.Fatalf("Switch to a task with no context did not panic")
		}
	}()
	cpu.Switch(&initTask, &task)
}

func TestSchedulerDrivesCPU(t *testing.T) {
	cpu := NewCPU(nil)
	s := sched.New(sched.Config{
		Switcher:     cpu,
		Pages:        &stubPages{next: 0x40_0000},
		TrampolinePC: cpu.TrampolinePC(),
	})
	cpu.SetEntry(s.RetFromFork)

	var runs []uint64
	fn := s.Register(func(arg uint64) {
		for {
			runs = append(runs, arg)
			s.Schedule()
		}
	})
	if _, err := s.CopyProcess(fn, 7, 1); err != nil {
		t.Fatalf("CopyProcess() error = %v", err)
	}
	if _, err := s.CopyProcess(fn, 9, 1); err != nil {
		t.Fatalf("CopyProcess() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		s.Schedule()
	}

	if len(runs) < 4 {
		t.Fatalf("task runs = %v, want at least 4", runs)
	}
	seen := map[uint64]bool{}
	for _, r := range runs {
		seen[r] = true
	}
	if !seen[7] || !seen[9] {
		t.Fatalf("task runs = %v, want both tasks dispatched", runs)
	}
	if got := s.Current(); got != 0 {
		t.Fatalf("Current() = %d, want init task", got)
	}
	if got := s.Task(0).PreemptCount; got != 0 {
		t.Fatalf("init preempt count = %d, want 0", got)
	}
}

type stubPages struct{ next uintptr }

func (p *stubPages) AllocPage() (uintptr, bool) {
	base := p.next
	p.next += sched.PageSize
	return base, true
}

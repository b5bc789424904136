package sched

import "testing"

func TestScheduleSoleTaskIsNoop(t *testing.T) {
	h := newHarness(0)
	h.s.Task(0).Counter = 1

	h.s.Schedule()

	if got := h.s.Task(0).Counter; got != 1 {
		t.Fatalf("counter after decay = %d, want 0>>1 + 1 = 1", got)
	}
	if got := h.s.Current(); got != 0 {
		t.Fatalf("Current() = %d, want 0", got)
	}
	if len(h.cpu.calls) != 0 {
		t.Fatalf("Switch calls = %d, want 0", len(h.cpu.calls))
	}
	if got := h.s.Stats().Decays; got != 1 {
		t.Fatalf("Stats().Decays = %d, want 1", got)
	}
	if got := h.s.Task(0).PreemptCount; got != 0 {
		t.Fatalf("PreemptCount = %d, want 0", got)
	}
}

func TestPickPrefersCounterOverPriority(t *testing.T) {
	h := newHarness(2)
	a := h.spawn(t, 3)
	b := h.spawn(t, 2)
	h.s.Task(0).Counter = 1
	h.s.Task(a).Counter = 0
	h.s.Task(b).Counter = 0

	if got := h.s.Pick(); got != 0 {
		t.Fatalf("Pick() = %d, want init task 0", got)
	}
	if got := h.s.Stats().Decays; got != 0 {
		t.Fatalf("Stats().Decays = %d, want 0", got)
	}
}

func TestPickBreaksTiesByLowestSlot(t *testing.T) {
	h := newHarness(3)
	h.spawn(t, 1)
	b := h.spawn(t, 5)
	c := h.spawn(t, 5)
	h.s.Task(0).Counter = 0
	h.s.Task(1).Counter = 0

	h.s.Task(b).Counter = 4
	h.s.Task(c).Counter = 4
	if got := h.s.Pick(); got != b {
		t.Fatalf("Pick() = %d, want %d", got, b)
	}
}

func TestPickDecaysAllTasks(t *testing.T) {
	h := newHarness(2)
	a := h.spawn(t, 4)
	b := h.spawn(t, 2)
	for _, id := range []Handle{0, a, b} {
		h.s.Task(id).Counter = 0
	}

	if got := h.s.Pick(); got != a {
		t.Fatalf("Pick() = %d, want %d", got, a)
	}
	want := map[Handle]int64{0: 1, a: 4, b: 2}
	for id, c := range want {
		if got := h.s.Task(id).Counter; got != c {
			t.Fatalf("pid %d counter = %d, want %d", id, got, c)
		}
	}
}

func TestDecayHalvesLeftoverCredit(t *testing.T) {
	h := newHarness(1)
	a := h.spawn(t, 2)
	h.s.Task(0).Counter = 3
	h.s.Task(a).Counter = 7

	h.s.decay()

	if got := h.s.Task(0).Counter; got != 3>>1+1 {
		t.Fatalf("init counter = %d, want %d", got, 3>>1+1)
	}
	if got := h.s.Task(a).Counter; got != 7>>1+2 {
		t.Fatalf("pid %d counter = %d, want %d", a, got, 7>>1+2)
	}
}

func TestPickTerminatesWithZeroPriorityTasks(t *testing.T) {
	h := newHarness(NumTasks)
	for i := 1; i < NumTasks; i++ {
		h.spawn(t, 0)
	}
	h.s.Table().Range(func(_ Handle, task *Task) bool {
		task.Counter = 0
		return true
	})

	if got := h.s.Pick(); got != 0 {
		t.Fatalf("Pick() = %d, want 0", got)
	}
	if got := h.s.Stats().Decays; got != 1 {
		t.Fatalf("Stats().Decays = %d, want 1", got)
	}
}

func TestPickSkipsNonRunnable(t *testing.T) {
	h := newHarness(1)
	a := h.spawn(t, 9)
	h.s.Task(a).State = StateTerminated

	if got := h.s.Pick(); got != 0 {
		t.Fatalf("Pick() = %d, want 0", got)
	}
}

func TestSwitchToCurrentIsNoop(t *testing.T) {
	h := newHarness(0)
	before := *h.s.Task(0)

	h.s.SwitchTo(0, "test")

	if len(h.cpu.calls) != 0 {
		t.Fatalf("Switch calls = %d, want 0", len(h.cpu.calls))
	}
	if *h.s.Task(0) != before {
		t.Fatal("task record changed on self switch")
	}
	if got := h.s.Stats().Switches; got != 0 {
		t.Fatalf("Stats().Switches = %d, want 0", got)
	}
}

func TestScheduleZeroesCounterAndSwitches(t *testing.T) {
	h := newHarness(1)
	a := h.spawn(t, 2)
	h.s.Task(0).Counter = 10

	h.s.Schedule()

	if got := h.s.Task(0).Counter; got != 0 {
		t.Fatalf("init counter = %d, want 0", got)
	}
	if got := h.s.Current(); got != a {
		t.Fatalf("Current() = %d, want %d", got, a)
	}
	if len(h.cpu.calls) != 1 {
		t.Fatalf("Switch calls = %d, want 1", len(h.cpu.calls))
	}
	call := h.cpu.calls[0]
	if call.prev != h.s.Task(0) || call.next != h.s.Task(a) {
		t.Fatal("Switch called with wrong prev/next")
	}
	if got := h.s.Task(0).PreemptCount; got != 0 {
		t.Fatalf("yielding task PreemptCount = %d, want 0", got)
	}
	if got := h.s.Task(a).PreemptCount; got != 1 {
		t.Fatalf("new task PreemptCount = %d, want 1 until ScheduleTail", got)
	}
}

func TestSwitchLogsTaskDump(t *testing.T) {
	h := newHarness(1)
	h.spawn(t, 2)
	h.log.lines = nil

	h.s.Schedule()

	var sawSwitch, sawDump bool
	for _, l := range h.log.lines {
		if l == "_schedule(schedule) switch_to next task (pid=1)" {
			sawSwitch = true
		}
		if l == "\tpid=1, sp=0x401000" {
			sawDump = true
		}
	}
	if !sawSwitch || !sawDump {
		t.Fatalf("log lines = %q, want switch record and task dump", h.log.lines)
	}
}

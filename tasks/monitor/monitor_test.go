package monitor

import (
	"strings"
	"testing"

	"pios/hal"
	"pios/sched"
)

type fakeSource struct {
	tasks []sched.TaskInfo
	stats sched.Stats
}

func (s fakeSource) Snapshot() []sched.TaskInfo { return s.tasks }
func (s fakeSource) Stats() sched.Stats         { return s.stats }

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) ClearRGB(r, g, b uint8)  {}
func (f *memFB) Present() error          { f.presents++; return nil }

func TestLinesListsTasks(t *testing.T) {
	src := fakeSource{
		tasks: []sched.TaskInfo{
			{Handle: 0, Priority: 1},
			{Handle: 1, Counter: 2, Priority: 2, SP: 0x40_1000, Current: true},
		},
		stats: sched.Stats{Ticks: 9, Switches: 3, Decays: 1},
	}
	m := New(src, nil, 4)
	lines := m.Lines()

	if len(lines) != 4 {
		t.Fatalf("Lines() = %q, want header, 2 tasks, summary", lines)
	}
	if !strings.HasPrefix(lines[2], "*1") || !strings.Contains(lines[2], "0x00401000") {
		t.Fatalf("current task line = %q", lines[2])
	}
	if want := "tasks=2 ticks=9 sw=3 decay=1 sup=0"; lines[3] != want {
		t.Fatalf("summary = %q, want %q", lines[3], want)
	}
}

func TestLinesTruncatesToRows(t *testing.T) {
	src := fakeSource{tasks: make([]sched.TaskInfo, 10)}
	m := New(src, nil, 3)
	if got := len(m.Lines()); got != 5 {
		t.Fatalf("len(Lines()) = %d, want 5", got)
	}
	if got := m.Height(); got != 5*lineHeight {
		t.Fatalf("Height() = %d, want %d", got, 5*lineHeight)
	}
}

func TestDrawStaysInBand(t *testing.T) {
	fb := &memFB{w: 200, h: 120}
	fb.buf = make([]byte, fb.w*fb.h*2)
	src := fakeSource{tasks: []sched.TaskInfo{{Handle: 0, Priority: 1, Current: true}}}
	m := New(src, fb, 2)

	if err := m.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if fb.presents != 1 {
		t.Fatalf("presents = %d, want 1", fb.presents)
	}
	band := m.Height() * fb.StrideBytes()
	if fb.buf[0] == 0 && fb.buf[1] == 0 {
		t.Fatalf("panel background not drawn")
	}
	for i, b := range fb.buf[band:] {
		if b != 0 {
			t.Fatalf("byte %d below the panel written", band+i)
		}
	}
}

func TestDrawWithoutFramebuffer(t *testing.T) {
	m := New(fakeSource{}, nil, 2)
	if err := m.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
}

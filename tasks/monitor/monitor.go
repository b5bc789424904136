// Package monitor draws the live task table into a band at the top of the
// framebuffer.
package monitor

import (
	"fmt"
	"image/color"

	"pios/arch"
	"pios/console"
	"pios/hal"
	"pios/sched"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	lineHeight = 10
	baseline   = 8
	marginX    = 2
)

var (
	colorBG      = color.RGBA{R: 0x10, G: 0x18, B: 0x30, A: 0xFF}
	colorText    = color.RGBA{R: 0xC0, G: 0xC8, B: 0xD8, A: 0xFF}
	colorCurrent = color.RGBA{R: 0xFF, G: 0xD0, B: 0x40, A: 0xFF}
	colorHeader  = color.RGBA{R: 0x70, G: 0xA0, B: 0xFF, A: 0xFF}
)

// Source is the scheduler state shown by the panel.
type Source interface {
	Snapshot() []sched.TaskInfo
	Stats() sched.Stats
}

// Monitor renders Source into a framebuffer band.
type Monitor struct {
	src  Source
	d    *console.Region
	rows int
	font tinyfont.Fonter
}

// New returns a monitor listing up to rows tasks. The band it occupies is
// Height pixels tall from the top of fb.
func New(src Source, fb hal.Framebuffer, rows int) *Monitor {
	if rows <= 0 {
		rows = 4
	}
	m := &Monitor{src: src, rows: rows, font: &proggy.TinySZ8pt7b}
	m.d = console.NewRegion(fb, 0, m.Height())
	return m
}

// Height is the panel height in pixels: a header, the task rows and a
// summary line.
func (m *Monitor) Height() int { return (m.rows + 2) * lineHeight }

// Lines returns the text of the panel.
func (m *Monitor) Lines() []string {
	tasks := m.src.Snapshot()
	st := m.src.Stats()

	out := make([]string, 0, m.rows+2)
	out = append(out, fmt.Sprintf("%-4s %5s %4s %4s %10s", "pid", "cnt", "pri", "pre", "sp"))
	for i, t := range tasks {
		if i == m.rows {
			break
		}
		mark := ' '
		if t.Current {
			mark = '*'
		}
		out = append(out, fmt.Sprintf("%c%-3d %5d %4d %4d 0x%08x", mark, t.Handle, t.Counter, t.Priority, t.PreemptCount, t.SP))
	}
	out = append(out, fmt.Sprintf("tasks=%d ticks=%d sw=%d decay=%d sup=%d",
		len(tasks), st.Ticks, st.Switches, st.Decays, st.Suppressed))
	return out
}

// Draw repaints the panel and presents the framebuffer.
func (m *Monitor) Draw() error {
	w, h := m.d.Size()
	if w == 0 || h == 0 {
		return nil
	}
	_ = m.d.FillRectangle(0, 0, w, h, colorBG)

	lines := m.Lines()
	for i, s := range lines {
		c := colorText
		switch {
		case i == 0 || i == len(lines)-1:
			c = colorHeader
		case s != "" && s[0] == '*':
			c = colorCurrent
		}
		tinyfont.WriteLine(m.d, m.font, marginX, int16(i*lineHeight+baseline), s, c)
	}
	return m.d.Display()
}

// Run is the task body: it redraws the panel forever, waiting delay
// iterations between frames.
func (m *Monitor) Run(irq arch.Poller, delay int) {
	for {
		_ = m.Draw()
		arch.Delay(irq, delay)
	}
}

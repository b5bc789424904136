// Package console renders kernel output as a scrolling text terminal in the
// framebuffer.
package console

import (
	"image/color"
	"sync"

	"pios/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 10
	fontOffset = 7
)

// Terminal implements hal.Logger on top of a framebuffer band. Lines become
// visible when Flush presents the framebuffer.
type Terminal struct {
	mu    sync.Mutex
	d     *Region
	t     *tinyterm.Terminal
	dirty bool
}

// New returns a terminal drawing into the rows of fb from top to the bottom.
// It returns nil when fb cannot hold a single line of text.
func New(fb hal.Framebuffer, top int) *Terminal {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	d := NewRegion(fb, top, 0)
	if _, h := d.Size(); h < fontHeight {
		return nil
	}
	c := &Terminal{d: d}
	c.reset()
	return c
}

func (c *Terminal) reset() {
	c.t = tinyterm.NewTerminal(c.d)
	c.t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        fontHeight,
		FontOffset:        fontOffset,
		UseSoftwareScroll: true,
	})
	w, h := c.d.Size()
	_ = c.d.FillRectangle(0, 0, w, h, color.RGBA{A: 0xFF})
	c.dirty = true
}

// Columns returns how many characters fit on a line.
func (c *Terminal) Columns() int {
	_, cw := tinyfont.LineWidth(&proggy.TinySZ8pt7b, "0")
	if cw == 0 {
		return 0
	}
	w, _ := c.d.Size()
	return int(uint32(w) / cw)
}

func (c *Terminal) WriteLineString(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.t.Write([]byte(s))
	_, _ = c.t.Write([]byte{'\r', '\n'})
	c.dirty = true
}

func (c *Terminal) WriteLineBytes(b []byte) {
	c.WriteLineString(string(b))
}

// Clear blanks the terminal and homes the cursor.
func (c *Terminal) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Flush presents the framebuffer if anything was written since the last
// flush.
func (c *Terminal) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	c.dirty = false
	return c.d.Display()
}

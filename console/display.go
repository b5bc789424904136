package console

import (
	"image/color"
	"sync"

	"pios/hal"

	"tinygo.org/x/drivers"
)

// Region is a horizontal band of an RGB565 framebuffer exposed as a
// drivers.Displayer. Coordinates are relative to the band's top row.
//
// Writes hold the framebuffer's lock when it has one.
type Region struct {
	fb     hal.Framebuffer
	top    int
	height int
}

// NewRegion returns the band of fb starting at row top, height rows tall. A
// non-positive height extends the band to the bottom of fb.
func NewRegion(fb hal.Framebuffer, top, height int) *Region {
	if fb == nil {
		return &Region{}
	}
	fh := fb.Height()
	top = clampInt(top, 0, fh)
	if height <= 0 || top+height > fh {
		height = fh - top
	}
	return &Region{fb: fb, top: top, height: height}
}

func (d *Region) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.height)
}

func (d *Region) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.height {
		return
	}
	defer d.lock()()
	buf, ok := d.buffer()
	if !ok {
		return
	}
	off := (d.top+iy)*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *Region) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *Region) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	defer d.lock()()
	buf, ok := d.buffer()
	if !ok {
		return nil
	}
	d.fill(buf, x, y, width, height, c)
	return nil
}

func (d *Region) fill(buf []byte, x, y, width, height int16, c color.RGBA) {
	w := d.fb.Width()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, d.height)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, d.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo, hi := byte(pixel), byte(pixel>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := (d.top + py) * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

// ScrollUp moves the band's content up by lines rows and clears the exposed
// rows with bg.
func (d *Region) ScrollUp(lines int16, bg color.RGBA) error {
	if lines <= 0 {
		return nil
	}
	defer d.lock()()
	buf, ok := d.buffer()
	if !ok {
		return nil
	}
	n := int(lines)
	if n >= d.height {
		d.fill(buf, 0, 0, int16(d.fb.Width()), int16(d.height), bg)
		return nil
	}
	stride := d.fb.StrideBytes()
	start := d.top * stride
	end := (d.top + d.height) * stride
	if end > len(buf) {
		end = len(buf)
	}
	copy(buf[start:end-n*stride], buf[start+n*stride:end])
	d.fill(buf, 0, int16(d.height-n), int16(d.fb.Width()), int16(n), bg)
	return nil
}

// Hardware scrolling and rotation are not available on the framebuffer.
func (d *Region) SetScroll(line int16) {}

func (d *Region) SetRotation(rotation drivers.Rotation) error { return nil }

func (d *Region) buffer() ([]byte, bool) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil, false
	}
	buf := d.fb.Buffer()
	return buf, buf != nil
}

func (d *Region) lock() (unlock func()) {
	l, ok := d.fb.(sync.Locker)
	if !ok {
		return func() {}
	}
	l.Lock()
	return l.Unlock
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

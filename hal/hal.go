package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// A framebuffer read by another goroutine, such as a window presenter, also
// implements sync.Locker. Code writing Buffer bytes holds that lock.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides the timer tick stream. Each value is one timer interrupt.
type Time interface {
	Ticks() <-chan uint64
}

// Interrupts is the core's interrupt line for the scheduling timer.
//
// Raise may be called from any goroutine. The remaining methods are called
// only by the task that owns the CPU.
type Interrupts interface {
	Enable()
	Disable()
	Enabled() bool
	SetHandler(fn func())
	Raise()
	Service() bool
}

// Pages is the physical page allocator.
type Pages interface {
	AllocPage() (base uintptr, ok bool)
	Free(base uintptr) bool
	Bytes(base uintptr) []byte
	Available() int
}

// HAL provides the only contact point between the kernel and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Time() Time
	Interrupts() Interrupts
	Pages() Pages
}

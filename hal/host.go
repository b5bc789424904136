//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig sizes the simulated board.
type HostConfig struct {
	MemoryPages int
	Width       int
	Height      int

	// Out receives log lines. Defaults to os.Stdout.
	Out io.Writer
}

const (
	defaultMemoryPages = 256
	defaultWidth       = 320
	defaultHeight      = 320
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	t      *hostTime
	irq    *IRQ
	pages  *PageAllocator
}

// New returns a host HAL implementation with default sizes.
func New() HAL {
	return newHost(HostConfig{})
}

// NewHost returns a host HAL implementation configured by cfg.
func NewHost(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	if cfg.MemoryPages <= 0 {
		cfg.MemoryPages = defaultMemoryPages
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &hostHAL{
		logger: &hostLogger{w: cfg.Out},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		t:      newHostTime(),
		irq:    NewIRQ(),
		pages:  NewPageAllocator(cfg.MemoryPages),
	}
}

func (h *hostHAL) Logger() Logger         { return h.logger }
func (h *hostHAL) Display() Display       { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time             { return h.t }
func (h *hostHAL) Interrupts() Interrupts { return h.irq }
func (h *hostHAL) Pages() Pages           { return h.pages }

// Tick delivers one timer tick, as the headless and window runners do.
func (h *hostHAL) Tick() { h.t.step() }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// NewLogger returns a Logger writing lines to w.
func NewLogger(w io.Writer) Logger {
	return &hostLogger{w: w}
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// Package printer is the demo process: it prints its pattern one character
// at a time with a busy wait between characters, forever.
package printer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"pios/arch"
	"pios/hal"
)

// MaxPattern is the number of bytes that fit in the task argument.
const MaxPattern = 8

var ErrPattern = errors.New("printer: pattern must be 1..8 bytes")

// Pack stores pattern in a task argument word, first byte lowest.
func Pack(pattern string) (uint64, error) {
	if len(pattern) == 0 || len(pattern) > MaxPattern {
		return 0, fmt.Errorf("%w: %q", ErrPattern, pattern)
	}
	var arg uint64
	for i := len(pattern) - 1; i >= 0; i-- {
		if pattern[i] == 0 {
			return 0, fmt.Errorf("%w: %q contains NUL", ErrPattern, pattern)
		}
		arg = arg<<8 | uint64(pattern[i])
	}
	return arg, nil
}

// Unpack recovers the pattern stored by Pack.
func Unpack(arg uint64) string {
	var b strings.Builder
	for ; arg != 0; arg >>= 8 {
		b.WriteByte(byte(arg))
	}
	return b.String()
}

// Printer writes task patterns to out.
type Printer struct {
	out   io.ByteWriter
	irq   arch.Poller
	delay int
}

// New returns a printer pausing delay iterations between characters and
// taking interrupts from irq while it waits.
func New(out io.ByteWriter, irq arch.Poller, delay int) *Printer {
	return &Printer{out: out, irq: irq, delay: delay}
}

// Run is the task entry. It never returns.
func (p *Printer) Run(arg uint64) {
	pattern := Unpack(arg)
	if pattern == "" {
		return
	}
	for {
		p.Print(pattern, len(pattern))
	}
}

// Print writes the first n characters of the repeated pattern.
func (p *Printer) Print(pattern string, n int) {
	for i := 0; i < n; i++ {
		_ = p.out.WriteByte(pattern[i%len(pattern)])
		arch.Delay(p.irq, p.delay)
	}
}

// LineWriter gathers characters from all printer tasks and emits them to a
// line logger once width characters have accumulated.
type LineWriter struct {
	mu    sync.Mutex
	out   hal.Logger
	width int
	buf   []byte
}

func NewLineWriter(out hal.Logger, width int) *LineWriter {
	if width <= 0 {
		width = 40
	}
	return &LineWriter{out: out, width: width, buf: make([]byte, 0, width)}
}

func (w *LineWriter) WriteByte(c byte) error {
	w.mu.Lock()
	w.buf = append(w.buf, c)
	var line []byte
	if len(w.buf) >= w.width {
		line = append(line, w.buf...)
		w.buf = w.buf[:0]
	}
	w.mu.Unlock()
	if line != nil && w.out != nil {
		w.out.WriteLineBytes(line)
	}
	return nil
}

// Flush emits any partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	line := append([]byte(nil), w.buf...)
	w.buf = w.buf[:0]
	w.mu.Unlock()
	if len(line) > 0 && w.out != nil {
		w.out.WriteLineBytes(line)
	}
}

//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

const (
	tinyGoMemoryPages = 128
	tinyGoTickPeriod  = 200 * time.Millisecond
)

type tinyGoHAL struct {
	logger *uartLogger
	t      *tinyGoTime
	irq    *IRQ
	pages  *PageAllocator
}

// New returns the board HAL.
//
// UART: UART0, 115200 8N1. The scheduling tick fires every 200ms.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		t:      newTinyGoTime(tinyGoTickPeriod),
		irq:    NewIRQ(),
		pages:  NewPageAllocator(tinyGoMemoryPages),
	}
}

func (h *tinyGoHAL) Logger() Logger         { return h.logger }
func (h *tinyGoHAL) Display() Display       { return noDisplay{} }
func (h *tinyGoHAL) Time() Time             { return h.t }
func (h *tinyGoHAL) Interrupts() Interrupts { return h.irq }
func (h *tinyGoHAL) Pages() Pages           { return h.pages }

type noDisplay struct{}

func (noDisplay) Framebuffer() Framebuffer { return nil }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime(period time.Duration) *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

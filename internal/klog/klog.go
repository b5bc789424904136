// Package klog is the kernel log: leveled, printf-style records written as
// lines to one or more hal.Logger sinks.
package klog

import (
	"fmt"
	"strings"
	"sync"

	"pios/hal"
)

// Mask selects which levels are written.
type Mask int

const (
	Nothing   Mask = 0x0
	ErrorMask Mask = 0x1
	WarnMask  Mask = 0x2
	InfoMask  Mask = 0x4
	DebugMask Mask = 0x8
)

// Level masks. Each level includes every more severe one.
const (
	LevelError = ErrorMask
	LevelWarn  = LevelError | WarnMask
	LevelInfo  = LevelWarn | InfoMask
	LevelDebug = LevelInfo | DebugMask
)

// Log writes records to its sinks. The zero value discards everything.
type Log struct {
	mu    sync.Mutex
	mask  Mask
	sinks []hal.Logger
}

// New returns a log writing the levels in mask to sinks.
func New(mask Mask, sinks ...hal.Logger) *Log {
	return &Log{mask: mask, sinks: sinks}
}

// SetMask replaces the level mask and returns the previous one.
func (l *Log) SetMask(mask Mask) Mask {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.mask
	l.mask = mask
	return prev
}

// Mask returns the level mask.
func (l *Log) Mask() Mask {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mask
}

// AddSink attaches another destination.
func (l *Log) AddSink(s hal.Logger) {
	if s == nil {
		return
	}
	l.mu.Lock()
	l.sinks = append(l.sinks, s)
	l.mu.Unlock()
}

// Enabled reports whether records at level m are written.
func (l *Log) Enabled(m Mask) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mask&m != 0
}

func (l *Log) Errorf(format string, args ...any) { l.logf(ErrorMask, format, args...) }
func (l *Log) Warnf(format string, args ...any)  { l.logf(WarnMask, format, args...) }
func (l *Log) Infof(format string, args ...any)  { l.logf(InfoMask, format, args...) }
func (l *Log) Debugf(format string, args ...any) { l.logf(DebugMask, format, args...) }

// Printf writes an unprefixed line regardless of the mask.
func (l *Log) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.write(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// WriteLineString writes s as an unprefixed line, so a Log can stand in for
// a hal.Logger.
func (l *Log) WriteLineString(s string) {
	if l == nil {
		return
	}
	l.write(s)
}

func (l *Log) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *Log) logf(m Mask, format string, args ...any) {
	if !l.Enabled(m) {
		return
	}
	var prefix string
	switch m {
	case ErrorMask:
		prefix = "ERROR:"
	case WarnMask:
		prefix = " WARN:"
	case InfoMask:
		prefix = " INFO:"
	case DebugMask:
		prefix = "DEBUG:"
	}
	l.write(prefix + " " + strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (l *Log) write(line string) {
	l.mu.Lock()
	sinks := l.sinks
	l.mu.Unlock()
	for _, s := range sinks {
		s.WriteLineString(line)
	}
}

// ParseLevel maps a level name to its mask.
func ParseLevel(name string) (Mask, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "off", "none":
		return Nothing, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return Nothing, fmt.Errorf("klog: unknown level %q", name)
}

// String lists the enabled levels.
func (m Mask) String() string {
	var parts []string
	for _, p := range []struct {
		m    Mask
		name string
	}{
		{ErrorMask, "error"},
		{WarnMask, "warn"},
		{InfoMask, "info"},
		{DebugMask, "debug"},
	} {
		if m&p.m != 0 {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "off"
	}
	return strings.Join(parts, " ")
}

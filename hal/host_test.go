//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

func TestHostLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.WriteLineString("hello")
	l.WriteLineBytes([]byte("world"))

	if got, want := buf.String(), "hello\nworld\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		steps int
		ticks <-chan uint64
	)
	err := RunHeadless(ctx, func(h HAL) func() error {
		ticks = h.Time().Ticks()
		return func() error {
			steps++
			return nil
		}
	}, HeadlessConfig{Hz: 1000, Ticks: 5, Host: HostConfig{Out: &bytes.Buffer{}}})
	if err != nil {
		t.Fatalf("RunHeadless() err = %v", err)
	}
	if steps != 5 {
		t.Fatalf("steps = %d, want 5", steps)
	}
	for want := uint64(1); want <= 5; want++ {
		if got := <-ticks; got != want {
			t.Fatalf("tick = %d, want %d", got, want)
		}
	}
}

func TestHostConfigDefaults(t *testing.T) {
	h := newHost(HostConfig{Out: &bytes.Buffer{}})
	if got := h.Pages().Available(); got != defaultMemoryPages {
		t.Fatalf("Pages().Available() = %d, want %d", got, defaultMemoryPages)
	}
	fb := h.Display().Framebuffer()
	if fb.Width() != defaultWidth || fb.Height() != defaultHeight {
		t.Fatalf("framebuffer = %dx%d, want %dx%d", fb.Width(), fb.Height(), defaultWidth, defaultHeight)
	}
	if h.Interrupts().Enabled() {
		t.Fatal("interrupts enabled at reset")
	}
}

func TestFramebufferSnapshotRGBA(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.ClearRGB(255, 0, 0)

	dst := make([]byte, 8)
	fb.snapshotRGBA(dst)

	want := []byte{255, 0, 0, 255, 255, 0, 0, 255}
	if !bytes.Equal(dst, want) {
		t.Fatalf("snapshot = %v, want %v", dst, want)
	}
}

func TestFramebufferLockBlocksSnapshot(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	var l sync.Locker = fb

	l.Lock()
	done := make(chan struct{})
	go func() {
		fb.snapshotRGBA(make([]byte, 2*4))
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("snapshotRGBA() ran while the framebuffer was locked")
	case <-time.After(20 * time.Millisecond):
	}
	l.Unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("snapshotRGBA() did not run after Unlock")
	}
}

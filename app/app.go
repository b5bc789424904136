// Package app is the kernel entry point. It wires the HAL, the scheduler and
// the boot tasks together and runs the init task's idle loop.
package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"pios/arch"
	"pios/config"
	"pios/console"
	"pios/hal"
	"pios/internal/buildinfo"
	"pios/internal/klog"
	"pios/internal/tracing"
	"pios/sched"
	"pios/tasks/monitor"
	"pios/tasks/printer"
)

// Banner is printed on the console before anything else.
const Banner = "Hello, Raspberry Pi 3B+"

const monitorRows = 6

// Kernel is a booted system.
type Kernel struct {
	h   hal.HAL
	cfg config.Config
	irq hal.Interrupts

	log  *klog.Log
	cpu  *arch.CPU
	s    *sched.Scheduler
	term *console.Terminal
	mon  *monitor.Monitor
	out  *printer.LineWriter
	obs  *tracing.Observer

	errMu sync.Mutex
	err   error

	halting  atomic.Bool
	haltOnce sync.Once
	halted   chan struct{}
	exited   chan struct{}
}

// New boots the kernel on h and returns the step function called by the host
// runners once per frame. The step function reports the first kernel error.
func New(h hal.HAL, cfg config.Config) func() error {
	k, err := Boot(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return k.Step
}

// Run boots the kernel and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL, cfg config.Config) {
	_ = New(h, cfg)
	select {}
}

// Boot validates cfg, builds the kernel and starts kernel_main on its own
// goroutine, which becomes the init task.
func Boot(h hal.HAL, cfg config.Config) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	mask, _ := klog.ParseLevel(cfg.Log)

	k := &Kernel{
		h:      h,
		cfg:    cfg,
		irq:    h.Interrupts(),
		log:    klog.New(mask),
		halted: make(chan struct{}),
		exited: make(chan struct{}),
	}
	if k.irq == nil {
		return nil, fmt.Errorf("boot: %w: interrupt controller", hal.ErrNotImplemented)
	}
	k.log.AddSink(h.Logger())

	if cfg.Trace != "" {
		if err := tracing.Init("pios", buildinfo.Short(), cfg.Trace); err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		k.obs = tracing.NewObserver(nil)
	}

	k.cpu = arch.NewCPU(k.trampoline)
	scfg := sched.Config{
		Switcher:     k.cpu,
		Pages:        h.Pages(),
		Interrupts:   k.irq,
		TrampolinePC: k.cpu.TrampolinePC(),
	}
	if k.log.Enabled(klog.DebugMask) {
		scfg.Log = k.log
	}
	if k.obs != nil {
		scfg.Observer = k.obs
	}
	k.s = sched.New(scfg)

	width := 40
	if fb := framebuffer(h); fb != nil {
		top := 0
		if cfg.Monitor {
			k.mon = monitor.New(k.s, fb, monitorRows)
			top = k.mon.Height()
		}
		if k.term = console.New(fb, top); k.term != nil {
			k.log.AddSink(k.term)
			if c := k.term.Columns(); c > 0 {
				width = c
			}
		}
	}
	k.out = printer.NewLineWriter(k.log, width)

	go k.main()
	return k, nil
}

func framebuffer(h hal.HAL) hal.Framebuffer {
	d := h.Display()
	if d == nil {
		return nil
	}
	return d.Framebuffer()
}

func (k *Kernel) main() {
	defer close(k.exited)
	defer k.recoverTask()

	k.log.Printf(Banner)
	pages := 0
	if p := k.h.Pages(); p != nil {
		pages = p.Available()
	}
	k.log.Infof("pios %s: %d Hz timer, %d free pages, log %s", buildinfo.String(), k.cfg.Hz, pages, k.log.Mask())

	k.irq.SetHandler(k.handleIRQ)
	if err := k.spawn(); err != nil {
		k.log.Errorf("error while starting process: %v", err)
		k.fail(err)
		return
	}
	go k.forwardTicks()
	k.irq.Enable()

	for {
		arch.Delay(k.irq, 1)
		k.s.Schedule()
	}
}

func (k *Kernel) spawn() error {
	p := printer.New(k.out, k.irq, k.cfg.Delay)
	fn := k.s.Register(p.Run)
	for _, tc := range k.cfg.Tasks {
		arg, err := printer.Pack(tc.Pattern)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", tc.Name, err)
		}
		pid, err := k.s.CopyProcess(fn, arg, tc.Priority)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", tc.Name, err)
		}
		k.log.Infof("spawned %s: pid=%d priority=%d pattern=%q", tc.Name, pid, tc.Priority, tc.Pattern)
	}

	if k.mon != nil {
		fn := k.s.Register(func(uint64) { k.mon.Run(k.irq, k.cfg.Delay*4) })
		pid, err := k.s.CopyProcess(fn, 0, 1)
		if err != nil {
			return fmt.Errorf("spawn monitor: %w", err)
		}
		k.log.Infof("spawned monitor: pid=%d", pid)
	}
	return nil
}

// trampoline runs on a new task's goroutine at its first dispatch.
func (k *Kernel) trampoline(t *sched.Task) {
	defer k.recoverTask()
	k.s.RetFromFork(t)
}

func (k *Kernel) forwardTicks() {
	tm := k.h.Time()
	if tm == nil {
		return
	}
	ch := tm.Ticks()
	if ch == nil {
		return
	}
	for range ch {
		if k.halting.Load() {
			return
		}
		k.irq.Raise()
	}
}

// handleIRQ is the timer interrupt vector. Once a halt is requested the task
// that takes the interrupt parks with the line masked, stopping the system.
func (k *Kernel) handleIRQ() {
	if k.halting.Load() {
		k.haltOnce.Do(func() { close(k.halted) })
		select {}
	}
	k.s.TimerTick()
}

// recoverTask turns a panic on a task goroutine into a kernel panic: the
// panic screen is drawn and the CPU is never handed on.
func (k *Kernel) recoverTask() {
	r := recover()
	if r == nil {
		return
	}
	pid := k.s.Current()
	k.fail(fmt.Errorf("kernel panic: pid=%d: %v", pid, r))
	panicScreen(k.h, pid, r, debug.Stack())
	select {}
}

func (k *Kernel) fail(err error) {
	k.errMu.Lock()
	defer k.errMu.Unlock()
	if k.err == nil {
		k.err = err
	}
}

// Err returns the first error raised by the kernel.
func (k *Kernel) Err() error {
	k.errMu.Lock()
	defer k.errMu.Unlock()
	return k.err
}

// Step presents console output and reports the kernel error, if any.
func (k *Kernel) Step() error {
	if k.term != nil {
		_ = k.term.Flush()
	}
	return k.Err()
}

// Stop halts the CPU at its next interrupt and flushes trace output. After
// Stop returns no task runs, so the scheduler may be inspected freely.
func (k *Kernel) Stop(ctx context.Context) error {
	k.halting.Store(true)
	k.irq.Raise()
	select {
	case <-k.halted:
	case <-k.exited:
	case <-ctx.Done():
		return ctx.Err()
	}
	k.out.Flush()
	if k.obs != nil {
		k.obs.Close()
		if err := tracing.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Scheduler returns the kernel's scheduler. It is safe to use only from a task
// or after Stop.
func (k *Kernel) Scheduler() *sched.Scheduler { return k.s }

// Log returns the kernel log.
func (k *Kernel) Log() *klog.Log { return k.log }

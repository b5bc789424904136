//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"pios/app"
	"pios/config"
	"pios/hal"
)

func main() {
	var (
		headless = flag.Bool("headless", false, "Run without a window.")
		cfgPath  = flag.String("config", "", "Boot configuration (YAML).")
		hz       = flag.Int("hz", 0, "Timer tick rate (overrides config).")
		ticks    = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
		logLevel = flag.String("log", "", "Log level: debug|info|warn|error (overrides config).")
		trace    = flag.String("trace", "", "Write scheduler spans to this file (overrides config).")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fatalf("%v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hz":
			cfg.Hz = *hz
		case "ticks":
			cfg.Ticks = *ticks
		case "log":
			cfg.Log = *logLevel
		case "trace":
			cfg.Trace = *trace
		}
	})
	if err := cfg.Validate(); err != nil {
		fatalf("config: %v", err)
	}

	host := hal.HostConfig{MemoryPages: cfg.MemoryPages}
	newApp := func(h hal.HAL) func() error { return app.New(h, cfg) }

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{Enabled: true, Hz: cfg.Hz, Ticks: cfg.Ticks, Host: host})
		if err != nil && !errors.Is(err, context.Canceled) {
			fatalf("%v", err)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Hz: cfg.Hz, Host: host}); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

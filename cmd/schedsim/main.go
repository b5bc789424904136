// Command schedsim replays the scheduler against a sequence of timer ticks
// and prints, per tick, the running task and every task's counter.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pios/config"
	"pios/hal"
	"pios/internal/klog"
)

func main() {
	var (
		ticks   = flag.Int("ticks", 24, "Number of timer ticks to simulate.")
		prios   = flag.String("prio", "", "Comma-separated task priorities, e.g. 1,2 (overrides -config).")
		cfgPath = flag.String("config", "", "Boot configuration whose tasks are simulated.")
		yields  = flag.String("yield", "", "Comma-separated ticks at which the running task calls schedule().")
		verbose = flag.Bool("v", false, "Log scheduler debug records.")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fatalf("%v", err)
		}
	}
	priorities := make([]int64, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		priorities = append(priorities, t.Priority)
	}
	if *prios != "" {
		p, err := parseList(*prios)
		if err != nil {
			fatalf("-prio: %v", err)
		}
		priorities = p
	}
	y, err := parseList(*yields)
	if err != nil {
		fatalf("-yield: %v", err)
	}

	opts := options{Ticks: *ticks, Priorities: priorities, Yields: y}
	if *verbose {
		opts.Log = klog.New(klog.LevelDebug, hal.NewLogger(os.Stderr))
	}
	if err := simulate(os.Stdout, opts); err != nil {
		fatalf("%v", err)
	}
}

func parseList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

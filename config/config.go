// Package config holds the kernel boot configuration. It can be populated
// from YAML; fields a file leaves out keep their Default values.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pios/internal/klog"
	"pios/sched"
	"pios/tasks/printer"
)

type Config struct {
	// Hz is the timer tick rate.
	Hz int `yaml:"hz"`
	// Ticks stops a headless run after this many ticks; 0 runs forever.
	Ticks uint64 `yaml:"ticks"`
	// MemoryPages is the size of the page allocator.
	MemoryPages int    `yaml:"memory_pages"`
	Log         string `yaml:"log"`
	// Trace names a file receiving scheduler spans; empty disables tracing.
	Trace string       `yaml:"trace"`
	Tasks []TaskConfig `yaml:"tasks"`
	// Monitor draws the task table panel when a display is present.
	Monitor bool `yaml:"monitor"`
	// Delay is the busy-wait length between printed characters.
	Delay int `yaml:"delay"`
}

// TaskConfig describes one printer task spawned at boot.
type TaskConfig struct {
	Name     string `yaml:"name"`
	Pattern  string `yaml:"pattern"`
	Priority int64  `yaml:"priority"`
}

// MaxPattern is the longest pattern a printer task accepts.
const MaxPattern = printer.MaxPattern

// Default returns the boot configuration of the two-process demo.
func Default() Config {
	return Config{
		Hz:          20,
		MemoryPages: 256,
		Log:         "info",
		Monitor:     true,
		Delay:       20000,
		Tasks: []TaskConfig{
			{Name: "digits", Pattern: "12345", Priority: 1},
			{Name: "letters", Pattern: "abcde", Priority: 2},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Fields absent from data keep their values;
// a tasks list replaces the existing one.
func Parse(data []byte, cfg *Config) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	if node.Kind == 0 {
		return nil
	}
	return node.Decode(cfg)
}

// MaxTasks is the number of printer tasks the task table can hold. The init
// task takes one slot and the monitor, when enabled, another.
func (c *Config) MaxTasks() int {
	n := sched.NumTasks - 1
	if c.Monitor {
		n--
	}
	return n
}

// Validate returns aggregated errors describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Hz <= 0 {
		errs = append(errs, fmt.Errorf("hz must be > 0, got %d", c.Hz))
	}
	if c.MemoryPages <= 0 {
		errs = append(errs, fmt.Errorf("memory_pages must be > 0, got %d", c.MemoryPages))
	}
	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must be >= 0, got %d", c.Delay))
	}
	if _, err := klog.ParseLevel(c.Log); err != nil {
		errs = append(errs, err)
	}
	if n := c.MaxTasks(); len(c.Tasks) > n {
		errs = append(errs, fmt.Errorf("tasks: %d entries, at most %d fit beside init and the monitor", len(c.Tasks), n))
	}
	seen := make(map[string]bool, len(c.Tasks))
	for i, t := range c.Tasks {
		switch {
		case t.Name == "":
			errs = append(errs, fmt.Errorf("tasks[%d]: name is required", i))
		case seen[t.Name]:
			errs = append(errs, fmt.Errorf("tasks[%d]: duplicate name %q", i, t.Name))
		}
		seen[t.Name] = true
		if t.Pattern == "" || len(t.Pattern) > MaxPattern {
			errs = append(errs, fmt.Errorf("tasks[%d]: pattern must be 1..%d bytes, got %d", i, MaxPattern, len(t.Pattern)))
		}
		if t.Priority < 0 {
			errs = append(errs, fmt.Errorf("tasks[%d]: priority must be >= 0, got %d", i, t.Priority))
		}
	}
	return errors.Join(errs...)
}

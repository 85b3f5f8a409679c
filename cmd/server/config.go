package main

import (
	"flag"
	"fmt"
	"log/slog"
	"time"
)

type config struct {
	Addr          string
	ComputerDelay time.Duration
	LogLevel      slog.Level
}

// loadConfig reads flags, falling back to ADDR, COMPUTER_DELAY and LOG_LEVEL.
func loadConfig(args []string, getenv func(string) string) (config, error) {
	cfg := config{Addr: ":8080", ComputerDelay: 500 * time.Millisecond}
	if v := getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("COMPUTER_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("COMPUTER_DELAY: %w", err)
		}
		cfg.ComputerDelay = d
	}
	level := getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.DurationVar(&cfg.ComputerDelay, "computer-delay", cfg.ComputerDelay, "pause before the computer replies")
	fs.StringVar(&level, "log-level", level, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return cfg, fmt.Errorf("log level: %w", err)
	}
	if cfg.ComputerDelay < 0 {
		return cfg, fmt.Errorf("computer delay must not be negative: %s", cfg.ComputerDelay)
	}
	return cfg, nil
}

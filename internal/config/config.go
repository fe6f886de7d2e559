// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/playbymail/tern/cerrs"
)

// Config carries per-user compiler settings loaded from tern.json.
// Command-line flags override anything loaded from the file.
type Config struct {
	DebugFlags DebugFlags_t `json:"DebugFlags"`
	Parallel   Parallel_t   `json:"Parallel"`
	Trace      Trace_t      `json:"Trace"`
}

type DebugFlags_t struct {
	DumpTokens bool `json:"DumpTokens,omitempty"`
	DumpRLT    bool `json:"DumpRLT,omitempty"`
	DumpAST    bool `json:"DumpAST,omitempty"`
	Passes     bool `json:"Passes,omitempty"`
}

type Parallel_t struct {
	// LexChunkKiB is the input size at or above which the driver hands
	// the input to the chunked lexer. Inputs under
	// lexer.ParallelThreshold (64 KiB) are still lexed sequentially.
	LexChunkKiB int `json:"LexChunkKiB,omitempty"`
	// Workers bounds concurrent file pipelines.
	Workers int `json:"Workers,omitempty"`
}

type Trace_t struct {
	// Path enables the sqlite run trace when set.
	Path string `json:"Path,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parallel: Parallel_t{
			LexChunkKiB: 64,
			Workers:     runtime.GOMAXPROCS(0),
		},
	}
}

// Load reads the configuration file, falling back to defaults when the
// file is missing. When debug is set, load failures are reported
// instead of silently defaulted.
func Load(path string, debug bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !debug {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("%s: %w: %v", path, cerrs.ErrInvalidConfigFile, err)
	}
	if cfg.Parallel.LexChunkKiB <= 0 {
		cfg.Parallel.LexChunkKiB = 64
	}
	if cfg.Parallel.Workers <= 0 {
		cfg.Parallel.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/playbymail/tern/internal/driver"
	"github.com/playbymail/tern/internal/source"
)

// newDriver builds the shared driver for a command invocation. The
// returned closer releases the trace store when one is configured.
func newDriver(ctx context.Context) (*driver.Driver, func(), error) {
	trace, err := driver.OpenTrace(ctx, globalConfig)
	if err != nil {
		return nil, nil, err
	}
	d := &driver.Driver{
		Config:   globalConfig,
		Provider: source.NewProvider(afero.NewOsFs()),
		Log:      log.WithField("app", "tern"),
		Trace:    trace,
	}
	closer := func() {
		if trace != nil {
			_ = trace.Close()
		}
	}
	return d, closer, nil
}

// compileArgs compiles every named input; `-` reads from stdin.
func compileArgs(d *driver.Driver, args []string) ([]*driver.Result, error) {
	var names []string
	var results []*driver.Result
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, err
			}
			results = append(results, d.Compile(d.Provider.FromString("stdin", string(data))))
			continue
		}
		names = append(names, arg)
	}
	fromFiles, err := d.CompileAll(names)
	if err != nil {
		return nil, err
	}
	return append(results, fromFiles...), nil
}

func useColor() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// anyErrors reports whether any result carries an Error or Bug
// diagnostic.
func anyErrors(results []*driver.Result) bool {
	for _, res := range results {
		if res.Diags.HasErrors() {
			return true
		}
	}
	return false
}

// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/playbymail/tern/internal/driver"
)

var cmdCheck = &cobra.Command{
	Use:   "check files...",
	Short: "run the full pipeline: desugaring, scope analysis and type inference",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, closer, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		results, err := compileArgs(d, args)
		if err != nil {
			return err
		}
		for _, res := range results {
			driver.Render(os.Stdout, d.Provider, res, useColor())
		}
		if anyErrors(results) {
			os.Exit(1)
		}
		return nil
	},
}

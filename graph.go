// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/playbymail/tern/internal/driver"
)

var cmdGraph = &cobra.Command{
	Use:   "graph files...",
	Short: "print the abstract syntax graph in DOT form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, closer, err := newDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()
		d.SkipPasses = true

		results, err := compileArgs(d, args)
		if err != nil {
			return err
		}
		for _, res := range results {
			if res.Graph != nil {
				fmt.Print(res.Graph.ExportDOTString())
			}
			driver.Render(os.Stderr, d.Provider, res, useColor())
		}
		if anyErrors(results) {
			os.Exit(1)
		}
		return nil
	},
}

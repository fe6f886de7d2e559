// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/playbymail/tern/internal/driver"
)

var cmdParse = &cobra.Command{
	Use:   "parse files...",
	Short: "parse each input and report diagnostics",
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
			if res.RLT != nil {
				fmt.Printf("%s: %d modules\n", res.File.Name, len(res.RLT.Modules))
			}
			driver.Render(os.Stderr, d.Provider, res, useColor())
		}
		if anyErrors(results) {
			os.Exit(1)
		}
		return nil
	},
}

// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/playbymail/tern/internal/driver"
)

var cmdTokens = &cobra.Command{
	Use:   "tokens files...",
	Short: "dump the token stream of each input",
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
			for _, tok := range res.Tokens {
				if tok.Kind.IsTrivia() {
					continue
				}
				fmt.Printf("%s\t%s\t%q\n", tok.Span, tok.Kind, tok.Text(res.File.Text))
			}
			driver.Render(os.Stderr, d.Provider, res, useColor())
		}
		if anyErrors(results) {
			os.Exit(1)
		}
		return nil
	},
}

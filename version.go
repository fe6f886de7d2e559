// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "show the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version.String())
	},
}

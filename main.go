// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package main implements the tern compiler front-end application
package main

import (
	"fmt"
	"os"

	"github.com/maloquacious/semver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/playbymail/tern/internal/config"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 4,
		Patch: 2,
		Build: semver.Commit(),
	}
	globalConfig *config.Config
	log          = logrus.New()
)

func main() {
	// if version is on the command line, show it and exit
	for _, arg := range os.Args {
		if arg == "-version" || arg == "--version" {
			fmt.Printf("%s\n", version.Short())
			return
		} else if arg == "-build-info" || arg == "--build-info" {
			fmt.Printf("%s\n", version.String())
			return
		}
	}
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	const configFileName = "tern.json"
	debugConfigFile := false
	if sb, err := os.Stat(configFileName); err == nil && sb.Mode().IsRegular() {
		debugConfigFile = true
	}
	cfg, err := config.Load(configFileName, debugConfigFile)
	if err != nil && debugConfigFile {
		log.Printf("[config] %q: %v\n", configFileName, err)
	}

	if err := Execute(cfg); err != nil {
		log.Fatal(err)
	}
}

// Execute wires the command tree and runs it.
func Execute(cfg *config.Config) error {
	globalConfig = cfg
	cmdRoot.PersistentFlags().BoolVarP(&argsRoot.verbose, "verbose", "v", false, "enable debug logging")
	cmdRoot.PersistentFlags().IntVar(&argsRoot.workers, "workers", 0, "bound concurrent file pipelines")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.traceDB, "trace-db", "", "record pipeline runs into a sqlite trace")

	cmdRoot.AddCommand(cmdTokens)
	cmdRoot.AddCommand(cmdParse)
	cmdRoot.AddCommand(cmdGraph)
	cmdRoot.AddCommand(cmdCheck)
	cmdRoot.AddCommand(cmdVersion)

	return cmdRoot.Execute()
}

var argsRoot struct {
	verbose bool
	workers int
	traceDB string
}

var cmdRoot = &cobra.Command{
	Use:   "tern",
	Short: "tern is the compiler front-end for the tern language",
	Long:  `Lex, parse and analyze tern sources: operator desugaring, scope analysis and Hindley-Milner type inference.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if argsRoot.verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		if argsRoot.workers > 0 {
			globalConfig.Parallel.Workers = argsRoot.workers
		}
		if argsRoot.traceDB != "" {
			globalConfig.Trace.Path = argsRoot.traceDB
		}
	},
}

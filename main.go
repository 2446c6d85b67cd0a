// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "voteledger"

// Set at build time with -ldflags "-X main.version=..."
var (
	version = "devel"
	commit  = "unknown"
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

// commonRun installs the JSON logger and sizes GOMAXPROCS
func commonRun(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	addSource := false
	if debug {
		logLevel = slog.LevelDebug
		addSource = true
	}
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     logLevel,
		}),
	)
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		slog.Error("failed to set GOMAXPROCS", "error", err)
	}
	logger.Info("version: "+versionString(), "component", programName)
	return logger
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s)", version, commit)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(programName, versionString())
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Single-election voting ledger API",
		// Server flags are parsed by cliparse so they can be layered over
		// the config file and environment
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), args)
		},
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(tokenCommand())
	rootCmd.AddCommand(versionCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Error running command", "error", err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var commands []*cli.Command
	commands = append(commands, getSystemCommands(version)...)
	commands = append(commands, getAuthCommands()...)
	commands = append(commands, getFarmCommands()...)

	cmd := &cli.Command{
		Name:     "farmaggregator",
		Usage:    "OAuth2 aggregator for farm-management servers",
		Version:  version,
		Commands: commands,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/farmaggregator/cmd/app/commands"
	"github.com/allisson/farmaggregator/internal/app"
	"github.com/allisson/farmaggregator/internal/config"
)

func getFarmCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-farm",
			Usage: "Register a farm-management server",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "url",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Farm base URL (e.g., https://myfarm.example.com)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Farm name",
				},
				&cli.StringFlag{
					Name:    "scope",
					Aliases: []string{"s"},
					Usage:   "Space-separated OAuth scopes requested for this farm",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the farm is served immediately",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				registry, err := container.FarmRegistry()
				if err != nil {
					return err
				}

				return commands.RunCreateFarm(
					ctx,
					registry,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("url"),
					cmd.String("name"),
					cmd.String("scope"),
					cmd.Bool("active"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check-farms",
			Usage: "Build a client for every active farm and report authorization health",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				registry, err := container.FarmRegistry()
				if err != nil {
					return err
				}

				return commands.RunCheckFarms(
					ctx,
					registry,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}

package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tablegate/cmd/app/commands"
	"github.com/allisson/tablegate/internal/app"
	"github.com/allisson/tablegate/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-principal",
			Usage: "Create a new principal with a capability grant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Unique principal username",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "Optional contact email",
				},
				&cli.BoolFlag{
					Name:  "read",
					Value: false,
					Usage: "Grant the read capability",
				},
				&cli.BoolFlag{
					Name:  "write",
					Value: false,
					Usage: "Grant the write capability",
				},
				&cli.BoolFlag{
					Name:  "delete",
					Value: false,
					Usage: "Grant the delete capability",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authUseCase, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreatePrincipal(
					ctx,
					authUseCase,
					container.Logger(),
					commands.CreatePrincipalOptions{
						Username: cmd.String("username"),
						Password: cmd.String("password"),
						Email:    cmd.String("email"),
						Read:     cmd.Bool("read"),
						Write:    cmd.Bool("write"),
						Delete:   cmd.Bool("delete"),
						Format:   cmd.String("format"),
					},
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "hash-password",
			Usage: "Hash a password with the configured Argon2id policy",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Password to hash",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunHashPassword(cmd.String("password"), commands.DefaultIO())
			},
		},
	}
}

package main

import (
	"context"

	"github.com/dukex/ddd-validator/pkg/web"
	cli "github.com/urfave/cli/v3"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the validation HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := newRuntime(ctx, command, "api")
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			rt.logger.InfoContext(ctx, "Initializing DDD validator API")

			api := web.NewAPI(rt.logger, rt.validation, rt.monitor)

			err = api.Start(command.Int("port"))
			if err != nil {
				rt.logger.ErrorContext(ctx, "Failed to start API", "error", err)
			}

			return err
		},
	}
}

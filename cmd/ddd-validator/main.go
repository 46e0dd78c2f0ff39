package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/ddd-validator/pkg/cmd"
	"github.com/dukex/ddd-validator/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

var version = "dev"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "ddd-validator",
		Usage:                 "Validate DDD Tool flow graphs and report spec quality",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project-dir",
				Aliases: []string{"d"},
				Usage:   "Root of the DDD project",
				Value:   ".",
				Sources: cli.EnvVars("DDD_PROJECT_DIR"),
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Node-type catalog file (overrides the project configuration)",
				Sources: cli.EnvVars("DDD_CATALOG"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Validator configuration file (default: <project-dir>/.ddd/validator.yaml)",
				Sources: cli.EnvVars("DDD_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (none, gochannel, kafka)",
				Value:   cmd.EventBusGoChannel,
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers for the kafka event bus",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"), command.String("log-format"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			ValidateCommand(),
			CoverageCommand(),
			CatalogCommand(),
			ServeCommand(),
			MCPCommand(),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/report"
	cli "github.com/urfave/cli/v3"
)

type catalogOutput struct {
	NodeTypes    []catalog.Entry `json:"nodeTypes"    yaml:"nodeTypes"`
	TriggerKinds []string        `json:"triggerKinds" yaml:"triggerKinds"`
}

func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Print the effective node-type catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (yaml, json)",
				Value:   string(report.FormatYAML),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			format, err := report.ParseFormat(command.String("format"))
			if err != nil {
				return err
			}

			rt, err := newRuntime(ctx, command, "catalog")
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			cat := rt.validation.Catalog()

			data, err := report.Marshal(catalogOutput{
				NodeTypes:    cat.Entries(),
				TriggerKinds: cat.TriggerKinds(),
			}, format)
			if err != nil {
				return err
			}

			_, err = command.Root().Writer.Write(data)

			return err
		},
	}
}


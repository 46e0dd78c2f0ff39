package main

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"
)

func CoverageCommand() *cli.Command {
	return &cli.Command{
		Name:  "coverage",
		Usage: "Print node-type and trigger-kind coverage of the project",
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := newRuntime(ctx, command, "coverage")
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			result, err := rt.validate(ctx)
			if err != nil {
				return err
			}

			cov := result.Coverage
			out := command.Root().Writer

			fmt.Fprintf(out, "node types:    %s (%d%%)\n", cov.NodeTypeCoverage(), cov.NodeCoveragePct)
			fmt.Fprintf(out, "trigger kinds: %s (%d%%)\n", cov.TriggerTypeCoverage(), cov.TriggerCoveragePct)
			fmt.Fprintf(out, "score:         %d%%\n", cov.ScorePct)

			if len(cov.NodeTypesMissing) > 0 {
				missing := make([]string, 0, len(cov.NodeTypesMissing))
				for _, t := range cov.NodeTypesMissing {
					missing = append(missing, string(t))
				}

				fmt.Fprintf(out, "missing:       %s\n", strings.Join(missing, ", "))
			}

			if len(cov.TriggerTypesObserved) > 0 {
				fmt.Fprintf(out, "triggers seen: %s\n", strings.Join(cov.TriggerTypesObserved, ", "))
			}

			return nil
		},
	}
}


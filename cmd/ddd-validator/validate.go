package main

import (
	"context"
	"fmt"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/dukex/ddd-validator/pkg/report"
	cli "github.com/urfave/cli/v3"
)

const (
	formatSummary     = "summary"
	exitFindingErrors = 2
)

// reportsOutput is what validate prints for yaml and json. It carries no run
// id, so the same project always prints the same bytes.
type reportsOutput struct {
	ToolCompatibility models.ToolCompatibilityReport `json:"toolCompatibility" yaml:"toolCompatibility"`
	SpecQuality       models.SpecQualityReport       `json:"specQuality"       yaml:"specQuality"`
}

func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate every flow and write the compatibility and quality reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report directory (default: outputDir from the configuration)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Standard output format (summary, yaml, json)",
				Value:   formatSummary,
			},
			&cli.IntFlag{
				Name:  "max-findings",
				Usage: "Findings listed per severity in the summary",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "no-write",
				Usage: "Do not write report files",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit with a non-zero status when any error is found",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			format := command.String("format")

			var outFormat report.Format
			if format != formatSummary {
				parsed, err := report.ParseFormat(format)
				if err != nil {
					return err
				}

				outFormat = parsed
			}

			rt, err := newRuntime(ctx, command, "validate")
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			result, err := rt.validate(ctx)
			if err != nil {
				return err
			}

			if !command.Bool("no-write") {
				dir := rt.outputDir(command.String("output"))
				if err := report.WriteFiles(dir, result.Compatibility, result.Quality); err != nil {
					return err
				}

				rt.logger.InfoContext(ctx, "Reports written", "dir", dir)
			}

			out := command.Root().Writer

			if outFormat == "" {
				fmt.Fprintln(out, report.Summary(result.Compatibility, result.Quality, command.Int("max-findings")))
			} else {
				data, err := report.Marshal(reportsOutput{
					ToolCompatibility: result.Compatibility,
					SpecQuality:       result.Quality,
				}, outFormat)
				if err != nil {
					return err
				}

				if _, err := out.Write(data); err != nil {
					return err
				}
			}

			if command.Bool("strict") && result.Quality.ErrorCount > 0 {
				return cli.Exit(fmt.Sprintf("%d errors found", result.Quality.ErrorCount), exitFindingErrors)
			}

			return nil
		},
	}
}

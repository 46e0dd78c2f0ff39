package main

import (
	"context"

	"github.com/dukex/ddd-validator/pkg/mcptools"
	"github.com/mark3labs/mcp-go/server"
	cli "github.com/urfave/cli/v3"
)

func MCPCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the validation tools over MCP on stdio",
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := newRuntime(ctx, command, "mcp")
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			s := mcptools.NewServer(version, rt.validation, rt.logger)

			return server.ServeStdio(s)
		},
	}
}

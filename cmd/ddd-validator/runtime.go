package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/dukex/ddd-validator/pkg/cmd"
	"github.com/dukex/ddd-validator/pkg/config"
	"github.com/dukex/ddd-validator/pkg/eventbus"
	"github.com/dukex/ddd-validator/pkg/log"
	"github.com/dukex/ddd-validator/pkg/otelhelper"
	"github.com/dukex/ddd-validator/pkg/services"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ddd-validator"

// runtime holds what every command needs: the project configuration and a
// validation service wired to the event bus and tracer chosen by flags.
type runtime struct {
	logger     *slog.Logger
	projectDir string
	cfg        config.Config
	validation *services.Validation
	monitor    *services.RunMonitor
	closers    []func(context.Context) error
}

func newRuntime(ctx context.Context, command *cli.Command, module string) (*runtime, error) {
	rt := &runtime{
		logger:     log.WithModule(module),
		projectDir: command.String("project-dir"),
	}

	configPath := command.String("config")
	if configPath == "" {
		configPath = filepath.Join(rt.projectDir, config.DefaultPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	rt.cfg = cfg

	bus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), rt.logger)
	if err != nil {
		return nil, err
	}

	var publisher eventbus.EventPublisher
	if bus != nil {
		publisher = bus
		rt.closers = append(rt.closers, func(context.Context) error { return bus.Close() })

		monitor := services.NewRunMonitor(rt.logger, services.DefaultRunHistory)
		if err := monitor.Start(ctx, bus); err != nil {
			rt.Close(ctx)

			return nil, err
		}

		rt.monitor = monitor
	}

	var tracer trace.Tracer
	if command.Bool("otel") {
		t, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
		if err != nil {
			rt.Close(ctx)

			return nil, err
		}

		tracer = t
		rt.closers = append(rt.closers, shutdown)
	}

	validation, err := cmd.NewValidation(cfg, command.String("catalog"), publisher, tracer, rt.logger)
	if err != nil {
		rt.Close(ctx)

		return nil, err
	}

	rt.validation = validation

	return rt, nil
}

// outputDir resolves the report directory: the flag wins, then the
// configuration, relative to the project root.
func (rt *runtime) outputDir(override string) string {
	if override != "" {
		return override
	}

	if filepath.IsAbs(rt.cfg.OutputDir) {
		return rt.cfg.OutputDir
	}

	return filepath.Join(rt.projectDir, rt.cfg.OutputDir)
}

func (rt *runtime) validate(ctx context.Context) (*services.Result, error) {
	l := cmd.NewLoader(rt.projectDir, rt.logger)
	defer func() {
		if err := l.Close(ctx); err != nil {
			rt.logger.ErrorContext(ctx, "Failed to close loader", "error", err)
		}
	}()

	return rt.validation.ValidateLoaded(ctx, l)
}

func (rt *runtime) Close(ctx context.Context) {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			rt.logger.ErrorContext(ctx, "Failed to close resource", "error", err)
		}
	}
}

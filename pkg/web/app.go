package web

import (
	"log/slog"
	"strconv"

	"github.com/dukex/ddd-validator/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	validation *services.Validation
	monitor    *services.RunMonitor
	validate   *validator.Validate
}

// NewAPI creates the HTTP API. monitor may be nil when no event bus is configured.
func NewAPI(logger *slog.Logger, validation *services.Validation, monitor *services.RunMonitor) *API {
	return &API{
		logger:     logger,
		validation: validation,
		monitor:    monitor,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := NewAPIHandlers(a.validation, a.monitor, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("DDD Validator API")
	})

	app.Post("/projects/validate", handlers.ValidateProject)
	app.Get("/runs", handlers.GetRuns)
	app.Get("/catalog", handlers.GetCatalog)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	a.logger.Info("Starting HTTP API", "port", port)

	return a.App().Listen(":" + strconv.Itoa(port))
}

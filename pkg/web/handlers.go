// Package web provides the HTTP API over the project validation service.
package web

import (
	"net/http"

	"github.com/dukex/ddd-validator/pkg/events"
	"github.com/dukex/ddd-validator/pkg/report"
	"github.com/dukex/ddd-validator/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Report selectors for the "report" query parameter.
const (
	reportQuality       = "quality"
	reportCompatibility = "compatibility"
)

type APIHandlers struct {
	validation *services.Validation
	monitor    *services.RunMonitor
	validator  *validator.Validate
}

func NewAPIHandlers(
	validation *services.Validation,
	monitor *services.RunMonitor,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		validation: validation,
		monitor:    monitor,
		validator:  validator,
	}
}

// ValidateProject validates a project posted as JSON. With ?report=quality or
// ?report=compatibility a single report is returned, in ?format=json (default) or yaml.
func (h *APIHandlers) ValidateProject(c fiber.Ctx) error {
	var req ValidateProjectRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	format := report.FormatJSON
	if f := c.Query("format"); f != "" {
		parsed, err := report.ParseFormat(f)
		if err != nil {
			return badRequest(c, err.Error())
		}

		format = parsed
	}

	selected := c.Query("report")
	if selected != "" && selected != reportQuality && selected != reportCompatibility {
		return badRequest(c, "report must be one of quality, compatibility")
	}

	result, err := h.validation.ValidateProject(c.Context(), req.Project())
	if err != nil {
		return handleServiceError(c, err)
	}

	var body any = ValidateProjectResponse{
		RunID:             result.RunID,
		ToolCompatibility: result.Compatibility,
		SpecQuality:       result.Quality,
	}

	switch selected {
	case reportQuality:
		body = result.Quality
	case reportCompatibility:
		body = result.Compatibility
	}

	if format == report.FormatJSON {
		return c.Status(http.StatusOK).JSON(body)
	}

	data, err := report.Marshal(body, format)
	if err != nil {
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/yaml")

	return c.Status(http.StatusOK).Send(data)
}

// GetRuns lists the most recent completed validation runs, newest first.
func (h *APIHandlers) GetRuns(c fiber.Ctx) error {
	runs := []events.ValidationCompleted{}
	if h.monitor != nil {
		runs = h.monitor.Runs()
	}

	return c.JSON(runs)
}

// GetCatalog lists the node types and trigger kinds in use.
func (h *APIHandlers) GetCatalog(c fiber.Ctx) error {
	cat := h.validation.Catalog()

	return c.JSON(CatalogResponse{
		NodeTypes:    cat.Entries(),
		TriggerKinds: cat.TriggerKinds(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	size := h.validation.Catalog().Size()

	status := "unhealthy"
	message := "DDD validator is unhealthy"
	httpStatus := http.StatusInternalServerError

	if size > 0 {
		status = "healthy"
		message = "DDD validator is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"catalog": fiber.Map{
				"node_types": size,
			},
		},
	})
}

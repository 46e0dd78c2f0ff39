package web

import (
	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/models"
)

// ValidateProjectRequest is a project sent inline for validation. Only the
// envelope is checked here: problems inside a flow become findings.
type ValidateProjectRequest struct {
	Name         string                `json:"name,omitempty"`
	Flows        []models.FlowDocument `json:"flows"                  validate:"required,min=1"`
	Schemas      []string              `json:"schemas,omitempty"`
	ErrorCodes   []string              `json:"errorCodes,omitempty"`
	Events       []string              `json:"events,omitempty"`
	Integrations []string              `json:"integrations,omitempty"`
}

// Project converts the request into the validator's project model.
func (r ValidateProjectRequest) Project() *models.Project {
	return &models.Project{
		Name:         r.Name,
		Flows:        r.Flows,
		Schemas:      r.Schemas,
		ErrorCodes:   r.ErrorCodes,
		Events:       r.Events,
		Integrations: r.Integrations,
	}
}

// ValidateProjectResponse carries both reports of a run.
type ValidateProjectResponse struct {
	RunID             string                         `json:"runId"`
	ToolCompatibility models.ToolCompatibilityReport `json:"toolCompatibility"`
	SpecQuality       models.SpecQualityReport       `json:"specQuality"`
}

// CatalogResponse describes the node types and trigger kinds the server checks against.
type CatalogResponse struct {
	NodeTypes    []catalog.Entry `json:"nodeTypes"`
	TriggerKinds []string        `json:"triggerKinds"`
}

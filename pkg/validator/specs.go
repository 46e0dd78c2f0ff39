package validator

import (
	"errors"
	"fmt"

	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/models"
	playground "github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

func (v *Validator) checkTriggerConfig(g *graph.FlowGraph) []models.Finding {
	var findings []models.Finding

	for _, node := range g.Triggers() {
		spec, ok := node.Spec.(*models.TriggerSpec)
		if !ok {
			continue
		}

		kind := spec.NormalizedKind()

		switch {
		case kind == "":
			findings = append(findings, finding(g, models.SeverityWarning, models.CodeMissingTriggerKind, node.ID,
				"trigger %q does not declare a kind", node.ID))

			continue
		case !v.catalog.HasTriggerKind(kind):
			findings = append(findings, finding(g, models.SeverityWarning, models.CodeUnknownTriggerKind, node.ID,
				"trigger kind %q is not one of %v", spec.Kind, v.catalog.TriggerKinds()))
		}

		if kind != models.TriggerKindCron {
			continue
		}

		if spec.Schedule == "" {
			findings = append(findings, finding(g, models.SeverityError, models.CodeInvalidTriggerConfig, node.ID,
				"cron trigger %q has no schedule", node.ID))

			continue
		}

		if _, err := cron.ParseStandard(spec.Schedule); err != nil {
			findings = append(findings, finding(g, models.SeverityError, models.CodeInvalidTriggerConfig, node.ID,
				"cron trigger %q has invalid schedule %q: %v", node.ID, spec.Schedule, err))
		}
	}

	return findings
}

// checkSpecFields applies the validate tags of each spec variant. Every failed
// field is one warning: the flow still works, it is just under-specified.
func (v *Validator) checkSpecFields(g *graph.FlowGraph) []models.Finding {
	var findings []models.Finding

	for _, node := range g.Nodes() {
		if node.Spec == nil {
			continue
		}

		if _, generic := node.Spec.(*models.GenericSpec); generic {
			continue
		}

		err := v.structs.Struct(node.Spec)
		if err == nil {
			continue
		}

		var fieldErrors playground.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			findings = append(findings, finding(g, models.SeverityWarning, models.CodeIncompleteSpec, node.ID,
				"spec of %s node %q could not be checked: %v", node.Type, node.ID, err))

			continue
		}

		for _, fe := range fieldErrors {
			findings = append(findings, finding(g, models.SeverityWarning, models.CodeIncompleteSpec, node.ID,
				"spec field %q of %s node %q %s", fe.Field(), node.Type, node.ID, describeTag(fe)))
		}
	}

	return findings
}

func describeTag(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s check", fe.Tag(), fe.Param())
		}

		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

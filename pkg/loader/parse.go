package loader

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed flow.schema.json
var flowSchema []byte

var flowSchemaLoader = gojsonschema.NewBytesLoader(flowSchema)

// ParseFlow decodes one YAML (or JSON) flow document and checks its shape
// against the flow JSON schema. Node semantics are not checked here.
func ParseFlow(data []byte) (models.FlowDocument, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return models.FlowDocument{}, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}

	if raw == nil {
		return models.FlowDocument{}, fmt.Errorf("%w: document is empty", ErrInvalidFlow)
	}

	if err := validateShape(raw); err != nil {
		return models.FlowDocument{}, err
	}

	var doc models.FlowDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.FlowDocument{}, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}

	return doc, nil
}

func validateShape(raw any) error {
	result, err := gojsonschema.Validate(flowSchemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidFlow, strings.Join(errors, "; "))
	}

	return nil
}

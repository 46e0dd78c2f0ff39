// Package validator decides whether a flow graph is well formed. It never
// mutates the graph and never performs I/O: every external lookup is injected.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/models"
	playground "github.com/go-playground/validator/v10"
)

var (
	ErrNilGraph   = errors.New("validator: graph is required")
	ErrNilCatalog = errors.New("validator: catalog is required")
)

// check inspects one aspect of a graph. Checks only read the graph, so they
// run concurrently.
type check func(g *graph.FlowGraph) []models.Finding

// Validator runs the structural, reference and configuration checks on flow graphs.
// A Validator is safe for concurrent use.
type Validator struct {
	catalog *catalog.Catalog
	lookup  Lookup
	structs *playground.Validate
}

// Option configures a Validator.
type Option func(*Validator)

// WithLookup injects the capability used to resolve external references.
// Without it, reference checks are skipped.
func WithLookup(lookup Lookup) Option {
	return func(v *Validator) {
		v.lookup = lookup
	}
}

// New creates a validator for the given catalog.
func New(cat *catalog.Catalog, opts ...Option) (*Validator, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	structs := playground.New(playground.WithRequiredStructEnabled())
	structs.RegisterTagNameFunc(jsonFieldName)

	v := &Validator{
		catalog: cat,
		structs: structs,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Validate runs every check against the graph and returns all findings at
// once, sorted. The error is reserved for caller contract violations.
func (v *Validator) Validate(g *graph.FlowGraph) (models.ValidationResult, error) {
	if g == nil {
		return models.ValidationResult{}, ErrNilGraph
	}

	checks := []check{
		checkTriggerCardinality,
		checkReachability,
		checkDeadEnds,
		checkPorts,
		checkDanglingConnections,
		v.checkReferences,
		v.checkTriggerConfig,
		v.checkSpecFields,
	}

	found := make([][]models.Finding, len(checks))

	var wg sync.WaitGroup

	for i, c := range checks {
		wg.Add(1)

		go func() {
			defer wg.Done()

			found[i] = c(g)
		}()
	}

	wg.Wait()

	var result models.ValidationResult
	for _, findings := range found {
		result.Add(findings...)
	}

	result.Sort()

	return result, nil
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

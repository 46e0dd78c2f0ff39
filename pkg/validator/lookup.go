package validator

import (
	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/models"
)

// Lookup resolves names of artifacts that live outside a flow. Implementations
// must be safe for concurrent use and must not block: the validator calls them
// from several goroutines and expects already-resolved in-memory data.
type Lookup interface {
	Resolve(kind models.ReferenceKind, name string) bool
	Optional(kind models.ReferenceKind) bool
}

// LookupFunc adapts a plain function to Lookup. No kind is optional.
type LookupFunc func(kind models.ReferenceKind, name string) bool

func (f LookupFunc) Resolve(kind models.ReferenceKind, name string) bool {
	return f(kind, name)
}

func (f LookupFunc) Optional(models.ReferenceKind) bool {
	return false
}

// Tables is the Lookup built once per project before flows are validated.
// It is read-only after construction.
type Tables struct {
	names    map[models.ReferenceKind]map[string]bool
	optional map[models.ReferenceKind]bool
}

// NewTables builds the project lookup tables. Flow ids come from the
// normalized graphs; events are the declared ones plus every event some flow emits.
func NewTables(project *models.Project, graphs []*graph.FlowGraph, optional ...models.ReferenceKind) *Tables {
	t := &Tables{
		names:    make(map[models.ReferenceKind]map[string]bool),
		optional: make(map[models.ReferenceKind]bool, len(optional)),
	}

	for _, kind := range optional {
		t.optional[kind] = true
	}

	if project != nil {
		t.add(models.ReferenceKindSchema, project.Schemas...)
		t.add(models.ReferenceKindErrorCode, project.ErrorCodes...)
		t.add(models.ReferenceKindEvent, project.Events...)
		t.add(models.ReferenceKindIntegration, project.Integrations...)
	}

	for _, g := range graphs {
		t.add(models.ReferenceKindFlow, g.ID())

		for _, node := range g.Nodes() {
			if event := node.EmittedEvent(); event != "" {
				t.add(models.ReferenceKindEvent, event)
			}
		}
	}

	return t
}

func (t *Tables) add(kind models.ReferenceKind, names ...string) {
	set, ok := t.names[kind]
	if !ok {
		set = make(map[string]bool, len(names))
		t.names[kind] = set
	}

	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
}

func (t *Tables) Resolve(kind models.ReferenceKind, name string) bool {
	return t.names[kind][name]
}

func (t *Tables) Optional(kind models.ReferenceKind) bool {
	return t.optional[kind]
}

// Size returns how many names of a kind the tables hold.
func (t *Tables) Size(kind models.ReferenceKind) int {
	return len(t.names[kind])
}

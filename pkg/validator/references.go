package validator

import (
	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/models"
)

// checkReferences resolves every external name a node spec points at. A miss
// is an error unless the caller marked that reference kind optional.
func (v *Validator) checkReferences(g *graph.FlowGraph) []models.Finding {
	if v.lookup == nil {
		return nil
	}

	var findings []models.Finding

	for _, node := range g.Nodes() {
		referencer, ok := node.Spec.(models.Referencer)
		if !ok {
			continue
		}

		for _, ref := range referencer.References() {
			if v.lookup.Resolve(ref.Kind, ref.Name) {
				continue
			}

			severity := models.SeverityError
			if v.lookup.Optional(ref.Kind) {
				severity = models.SeverityWarning
			}

			findings = append(findings, finding(g, severity, models.CodeDanglingReference, node.ID,
				"%s node %q references unknown %s %q", node.Type, node.ID, ref.Kind, ref.Name))
		}
	}

	return findings
}

// UnmatchedEvents reports events some flow emits that no flow consumes.
// It needs every graph of the project, so it runs after the per-flow fan-in.
func UnmatchedEvents(graphs []*graph.FlowGraph) []models.Finding {
	consumed := make(map[string]bool)

	for _, g := range graphs {
		for _, node := range g.Nodes() {
			if event := node.ConsumedEvent(); event != "" {
				consumed[event] = true
			}
		}
	}

	var findings []models.Finding

	for _, g := range graphs {
		for _, node := range g.Nodes() {
			event := node.EmittedEvent()
			if event == "" || consumed[event] {
				continue
			}

			findings = append(findings, finding(g, models.SeverityWarning, models.CodeUnmatchedEvent, node.ID,
				"event %q is emitted but no flow consumes it", event))
		}
	}

	models.SortFindings(findings)

	return findings
}

// Package coverage measures how much of the node-type and trigger-kind
// catalogs a set of flows exercises, and turns findings into a quality score.
package coverage

import (
	"errors"
	"math"
	"slices"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/models"
)

var ErrNilCatalog = errors.New("coverage: catalog is required")

// Weights are the score penalties per finding.
type Weights struct {
	Error   int `json:"errorWeight"   yaml:"errorWeight"   validate:"gte=0"`
	Warning int `json:"warningWeight" yaml:"warningWeight" validate:"gte=0"`
}

// DefaultWeights costs two points per error and one per warning.
func DefaultWeights() Weights {
	return Weights{Error: 2, Warning: 1}
}

// Thresholds are the minimum scores of each quality label.
type Thresholds struct {
	Excellent int `json:"excellent" yaml:"excellent" validate:"gtefield=Good,lte=100"`
	Good      int `json:"good"      yaml:"good"      validate:"gtefield=Fair"`
	Fair      int `json:"fair"      yaml:"fair"      validate:"gte=0"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 95, Good: 80, Fair: 60}
}

// Label buckets a score.
func (t Thresholds) Label(score int) models.QualityLabel {
	switch {
	case score >= t.Excellent:
		return models.QualityExcellent
	case score >= t.Good:
		return models.QualityGood
	case score >= t.Fair:
		return models.QualityFair
	default:
		return models.QualityPoor
	}
}

// Analyzer computes coverage reports against one catalog.
type Analyzer struct {
	catalog    *catalog.Catalog
	weights    Weights
	thresholds Thresholds
}

type Option func(*Analyzer)

func WithWeights(w Weights) Option {
	return func(a *Analyzer) {
		a.weights = w
	}
}

func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

func New(cat *catalog.Catalog, opts ...Option) (*Analyzer, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	a := &Analyzer{
		catalog:    cat,
		weights:    DefaultWeights(),
		thresholds: DefaultThresholds(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Thresholds returns the label thresholds the analyzer was built with.
func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// Analyze aggregates the graphs of a project and scores the findings
// produced for them.
func (a *Analyzer) Analyze(graphs []*graph.FlowGraph, result models.ValidationResult) models.CoverageReport {
	observed := ObservedNodeTypes(graphs)

	var missing []models.NodeType
	for _, t := range a.catalog.NodeTypes() {
		if _, found := slices.BinarySearch(observed, t); !found {
			missing = append(missing, t)
		}
	}

	var triggers []string
	for _, kind := range ObservedTriggerKinds(graphs) {
		if a.catalog.HasTriggerKind(kind) {
			triggers = append(triggers, kind)
		}
	}

	triggerCatalogSize := len(a.catalog.TriggerKinds())

	return models.CoverageReport{
		NodeTypesObserved:    observed,
		NodeTypesMissing:     missing,
		NodeTypeCatalogSize:  a.catalog.Size(),
		NodeCoveragePct:      Pct(len(observed), a.catalog.Size()),
		TriggerTypesObserved: triggers,
		TriggerCatalogSize:   triggerCatalogSize,
		TriggerCoveragePct:   Pct(len(triggers), triggerCatalogSize),
		ScorePct:             Score(len(result.Errors), len(result.Warnings), a.weights),
	}
}

// Label buckets a score with the analyzer's thresholds.
func (a *Analyzer) Label(score int) models.QualityLabel {
	return a.thresholds.Label(score)
}

// ObservedNodeTypes returns the sorted set of node types used by the graphs.
// Orphan nodes do not count. A graph without a trigger has no orphans, so all
// of its nodes count.
func ObservedNodeTypes(graphs []*graph.FlowGraph) []models.NodeType {
	seen := make(map[models.NodeType]bool)

	for _, g := range graphs {
		_, rooted := g.Root()

		for _, node := range g.Nodes() {
			if rooted && !g.IsReachable(node.ID) {
				continue
			}

			seen[node.Type] = true
		}
	}

	types := make([]models.NodeType, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// ObservedTriggerKinds returns the sorted, lowercased kinds of the root trigger
// of every graph.
func ObservedTriggerKinds(graphs []*graph.FlowGraph) []string {
	seen := make(map[string]bool)

	for _, g := range graphs {
		root, ok := g.Root()
		if !ok {
			continue
		}

		spec, ok := root.Spec.(*models.TriggerSpec)
		if !ok {
			continue
		}

		if kind := spec.NormalizedKind(); kind != "" {
			seen[kind] = true
		}
	}

	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}

	slices.Sort(kinds)

	return kinds
}

// Pct is observed/total as a whole percentage, rounded half away from zero.
// An empty catalog has zero coverage.
func Pct(observed, total int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(observed) / float64(total) * 100))
}

// Score is 100 minus the weighted findings, floored at zero.
func Score(errorCount, warningCount int, w Weights) int {
	penalty := int64(errorCount)*int64(max(w.Error, 0)) + int64(warningCount)*int64(max(w.Warning, 0))
	if penalty >= 100 {
		return 0
	}

	return 100 - int(penalty)
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/coverage"
	"github.com/dukex/ddd-validator/pkg/eventbus"
	"github.com/dukex/ddd-validator/pkg/events"
	"github.com/dukex/ddd-validator/pkg/mocks"
	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/dukex/ddd-validator/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, opts ...ValidationOption) *Validation {
	t.Helper()

	s, err := NewValidation(catalog.MustDefault(), opts...)
	require.NoError(t, err)

	return s
}

func signupFlow() models.FlowDocument {
	return testutil.CreateTestFlow("signup",
		testutil.CreateTriggerNode("t1", "HTTP", "in1"),
		testutil.CreateTestNode("in1", models.NodeTypeInput, testutil.WithConnection("valid", "end")),
		testutil.CreateTerminalNode("end"),
	)
}

func TestNewValidation_NilCatalog(t *testing.T) {
	_, err := NewValidation(nil)
	assert.ErrorIs(t, err, ErrCatalogNil)
}

func TestNewValidation_UnknownOptionalReference(t *testing.T) {
	_, err := NewValidation(catalog.MustDefault(), WithOptionalReferences("widget"))

	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.True(t, IsValidationError(err))
}

func TestValidateProject_NilProject(t *testing.T) {
	_, err := newService(t).ValidateProject(t.Context(), nil)

	assert.ErrorIs(t, err, ErrProjectNil)
	assert.True(t, IsValidationError(err))
}

func TestValidateProject_SingleUnwiredPort(t *testing.T) {
	project := &models.Project{Name: "shop", Flows: []models.FlowDocument{signupFlow()}}

	result, err := newService(t).ValidateProject(t.Context(), project)
	require.NoError(t, err)

	require.Len(t, result.Findings.Errors, 1)
	assert.Equal(t, models.CodeUnwiredPort, result.Findings.Errors[0].Code)
	assert.Empty(t, result.Findings.Warnings)

	assert.Equal(t, 98, result.Quality.ScorePct)
	assert.Equal(t, models.QualityExcellent, result.Quality.QualityLabel)
	assert.Equal(t, "3/28", result.Quality.NodeTypeCoverage)
	assert.Equal(t, models.CompatibilityFull, result.Compatibility.Compatibility)
	assert.Equal(t, 1, result.Compatibility.TotalFiles)
	assert.NotEmpty(t, result.RunID)
}

func TestValidateProject_ProjectLevelFindings(t *testing.T) {
	checkout := testutil.CreateTestFlow("checkout",
		testutil.CreateTriggerNode("t", "http", "sub"),
		testutil.CreateTestNode("sub", models.NodeTypeSubFlow,
			testutil.WithSpec(map[string]any{"flowRef": "charge-card"}),
			testutil.WithConnection("success", "ok"),
			testutil.WithConnection("error", "ok"),
		),
		testutil.CreateTerminalNode("ok"),
	)

	duplicate := testutil.CreateValidFlow("checkout")
	duplicate.Source = "specs/domains/x/flows/checkout-copy.yaml"

	unknownType := testutil.CreateTestFlow("legacy",
		testutil.CreateTriggerNode("t", "http", "x"),
		testutil.CreateTestNode("x", models.NodeType("ftp_upload")),
	)

	project := &models.Project{
		Name:  "shop",
		Flows: []models.FlowDocument{checkout, duplicate, unknownType, testutil.CreateValidFlow("ship")},
		Files: []models.SourceFile{
			{Path: "a.yaml", Status: models.FileStatusParsed},
			{Path: "b.yaml", Status: models.FileStatusParsed},
			{Path: "c.yaml", Status: models.FileStatusParsed},
			{Path: "d.yaml", Status: models.FileStatusParsed},
			{Path: "broken.yaml", Status: models.FileStatusFailed, Error: "yaml: line 1"},
		},
	}

	result, err := newService(t).ValidateProject(t.Context(), project)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Findings.Count(models.CodeDanglingReference))
	assert.Equal(t, 1, result.Findings.Count(models.CodeDuplicateFlowID))
	assert.Equal(t, 1, result.Findings.Count(models.CodeUnknownNodeType))
	assert.Equal(t, 1, result.Findings.Count(models.CodeParseError))
	assert.Len(t, result.Findings.Errors, 4)

	assert.Equal(t, models.ParseStats{
		TotalFiles:       5,
		ParsedOK:         4,
		ParsedFailed:     1,
		NormalizedOK:     2,
		NormalizedFailed: 2,
	}, result.Stats)
	assert.Equal(t, models.CompatibilityPartial, result.Compatibility.Compatibility)
	assert.Equal(t, 92, result.Quality.ScorePct)

	for _, f := range result.Findings.Errors {
		if f.Code == models.CodeParseError {
			assert.Equal(t, "broken.yaml", f.FlowID)
		}
	}
}

func TestValidateProject_SubFlowResolvesAcrossProject(t *testing.T) {
	checkout := testutil.CreateTestFlow("checkout",
		testutil.CreateTriggerNode("t", "http", "sub"),
		testutil.CreateTestNode("sub", models.NodeTypeSubFlow,
			testutil.WithSpec(map[string]any{"flowRef": "charge-card"}),
			testutil.WithConnection("success", "ok"),
			testutil.WithConnection("error", "ok"),
		),
		testutil.CreateTerminalNode("ok"),
	)

	// the referenced flow comes last: the tables are complete before any flow is checked
	project := &models.Project{Flows: []models.FlowDocument{checkout, testutil.CreateValidFlow("charge-card")}}

	result, err := newService(t, WithWorkers(1)).ValidateProject(t.Context(), project)
	require.NoError(t, err)

	assert.Empty(t, result.Findings.Errors)
}

func TestValidateProject_OptionalReferences(t *testing.T) {
	doc := testutil.CreateTestFlow("pay",
		testutil.CreateTriggerNode("t", "http", "call"),
		testutil.CreateTestNode("call", models.NodeTypeServiceCall,
			testutil.WithSpec(map[string]any{"integration": "stripe"}),
			testutil.WithConnection("success", "ok"),
			testutil.WithConnection("error", "ok"),
		),
		testutil.CreateTerminalNode("ok"),
	)

	project := &models.Project{Flows: []models.FlowDocument{doc}}

	strict, err := newService(t).ValidateProject(t.Context(), project)
	require.NoError(t, err)
	assert.Len(t, strict.Findings.Errors, 1)

	lenient, err := newService(t, WithOptionalReferences(models.ReferenceKindIntegration)).ValidateProject(t.Context(), project)
	require.NoError(t, err)
	assert.Empty(t, lenient.Findings.Errors)
	assert.Equal(t, 1, lenient.Findings.Count(models.CodeDanglingReference))
}

func TestValidateProject_EmptyProject(t *testing.T) {
	result, err := newService(t).ValidateProject(t.Context(), &models.Project{})
	require.NoError(t, err)

	assert.Equal(t, models.CompatibilityNone, result.Compatibility.Compatibility)
	assert.Equal(t, 100, result.Quality.ScorePct)
	assert.Equal(t, "0/28", result.Quality.NodeTypeCoverage)
}

func TestValidateProject_Deterministic(t *testing.T) {
	flows := make([]models.FlowDocument, 0, 40)
	for i := range 20 {
		flows = append(flows, testutil.CreateFlowWithTypes("linear-"+string(rune('a'+i)), models.NodeTypeProcess, models.NodeTypeDelay))
		flows = append(flows, testutil.CreateTestFlow("broken-"+string(rune('a'+i)),
			testutil.CreateTriggerNode("t1", "http", ""),
			testutil.CreateTriggerNode("t2", "cron", "d"),
			testutil.CreateTestNode("d", models.NodeTypeDecision, testutil.WithConnection("true", "t1")),
		))
	}

	project := &models.Project{Flows: flows}
	s := newService(t, WithWorkers(8))

	first, err := s.ValidateProject(t.Context(), project)
	require.NoError(t, err)

	for range 5 {
		again, err := s.ValidateProject(t.Context(), project)
		require.NoError(t, err)
		assert.Equal(t, first.Quality, again.Quality)
		assert.Equal(t, first.Compatibility, again.Compatibility)
	}

	assert.Equal(t, 0, first.Quality.ScorePct)
	assert.Equal(t, models.QualityPoor, first.Quality.QualityLabel)
}

func TestValidateProject_CustomAnalyzer(t *testing.T) {
	analyzer, err := coverage.New(catalog.MustDefault(), coverage.WithWeights(coverage.Weights{Error: 10, Warning: 1}))
	require.NoError(t, err)

	project := &models.Project{Flows: []models.FlowDocument{signupFlow()}}

	result, err := newService(t, WithAnalyzer(analyzer)).ValidateProject(t.Context(), project)
	require.NoError(t, err)

	assert.Equal(t, 90, result.Quality.ScorePct)
	assert.Equal(t, models.QualityGood, result.Quality.QualityLabel)
}

func TestValidateProject_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	project := &models.Project{Flows: []models.FlowDocument{testutil.CreateValidFlow("a")}}

	_, err := newService(t).ValidateProject(ctx, project)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateProject_PublishesLifecycleEvents(t *testing.T) {
	bus := &mocks.MockEventBus{}

	var (
		mu   sync.Mutex
		seen []events.EventType
	)

	bus.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()

			seen = append(seen, args.Get(2).(eventbus.Event).GetType())
		}).
		Return(nil)

	duplicate := testutil.CreateValidFlow("a")
	project := &models.Project{Flows: []models.FlowDocument{testutil.CreateValidFlow("a"), duplicate, testutil.CreateValidFlow("b")}}

	result, err := newService(t, WithPublisher(bus)).ValidateProject(t.Context(), project)
	require.NoError(t, err)

	require.Len(t, seen, 5)
	assert.Equal(t, events.ValidationStartedEvent, seen[0])
	assert.Equal(t, events.ValidationCompletedEvent, seen[4])

	for _, eventType := range seen[1:4] {
		assert.Equal(t, events.FlowValidatedEvent, eventType)
	}

	bus.AssertCalled(t, "Publish", mock.Anything, result.RunID, mock.Anything)
}

func TestValidateProject_PublishFailureIsNotFatal(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	project := &models.Project{Flows: []models.FlowDocument{testutil.CreateValidFlow("a")}}

	result, err := newService(t, WithPublisher(bus)).ValidateProject(t.Context(), project)
	require.NoError(t, err)
	assert.Empty(t, result.Findings.Errors)
}

func TestValidateLoaded(t *testing.T) {
	t.Run("loads then validates", func(t *testing.T) {
		l := &mocks.MockLoader{}
		l.On("Load", mock.Anything).Return(&models.Project{Flows: []models.FlowDocument{signupFlow()}}, nil)

		result, err := newService(t).ValidateLoaded(t.Context(), l)
		require.NoError(t, err)
		assert.Equal(t, 98, result.Quality.ScorePct)
		l.AssertExpectations(t)
	})

	t.Run("load failure", func(t *testing.T) {
		l := &mocks.MockLoader{}
		l.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))

		_, err := newService(t).ValidateLoaded(t.Context(), l)

		var serviceErr *ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "LoadProject", serviceErr.Op)
		assert.Contains(t, err.Error(), "disk on fire")
	})
}

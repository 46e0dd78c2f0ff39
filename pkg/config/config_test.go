package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/ddd-validator/pkg/coverage"
	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return dir
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, coverage.Weights{Error: 2, Warning: 1}, cfg.Score)
	assert.Equal(t, 95, cfg.Thresholds.Excellent)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
workers: 4
score:
  errorWeight: 5
optionalReferences: [event, integration]
`)

	cfg, err := LoadProject(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5, cfg.Score.Error)
	assert.Equal(t, 1, cfg.Score.Warning)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, []models.ReferenceKind{models.ReferenceKindEvent, models.ReferenceKindIntegration}, cfg.OptionalReferences)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "workers: [1"},
		{name: "negative workers", content: "workers: -1"},
		{name: "unknown reference kind", content: "optionalReferences: [table]"},
		{name: "thresholds out of order", content: "thresholds: {excellent: 50, good: 80, fair: 60}"},
		{name: "negative weight", content: "score: {warningWeight: -3}"},
		{name: "empty output dir", content: `outputDir: ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProject(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

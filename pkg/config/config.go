// Package config provides configuration loading for the validator.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dukex/ddd-validator/pkg/coverage"
	"github.com/dukex/ddd-validator/pkg/models"
	playground "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where a project keeps its validator configuration.
const DefaultPath = ".ddd/validator.yaml"

// DefaultOutputDir is where reports are written, relative to the project root.
const DefaultOutputDir = ".ddd/reports"

var ErrInvalidConfig = errors.New("invalid validator configuration")

// Config is the validator.yaml file of a project.
type Config struct {
	// Catalog replaces the embedded node-type catalog when set.
	Catalog   string `yaml:"catalog,omitempty"`
	OutputDir string `yaml:"outputDir"          validate:"required"`
	// Workers bounds how many flows are validated at once. Zero means one per CPU.
	Workers    int                 `yaml:"workers"    validate:"gte=0,lte=256"`
	Score      coverage.Weights    `yaml:"score"`
	Thresholds coverage.Thresholds `yaml:"thresholds"`
	// OptionalReferences lists reference kinds whose dangling targets are
	// reported as warnings instead of errors.
	OptionalReferences []models.ReferenceKind `yaml:"optionalReferences,omitempty" validate:"dive,oneof=schema error_code event flow integration"`
}

// Default returns the configuration used when a project has no file.
func Default() Config {
	return Config{
		OutputDir:  DefaultOutputDir,
		Score:      coverage.DefaultWeights(),
		Thresholds: coverage.DefaultThresholds(),
	}
}

// Load reads a configuration file over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadProject reads the configuration of the project rooted at dir.
func LoadProject(dir string) (Config, error) {
	return Load(filepath.Join(dir, DefaultPath))
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if err := playground.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

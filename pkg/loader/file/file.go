// Package file provides the file-system loader for DDD projects.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dukex/ddd-validator/pkg/loader"
	"github.com/dukex/ddd-validator/pkg/models"
	"gopkg.in/yaml.v3"
)

// Project tree layout, relative to the project root.
const (
	FlowsGlob        = "specs/domains/*/flows/*"
	SchemasGlob      = "specs/schemas/*"
	ErrorsFile       = "specs/shared/errors.yaml"
	EventsFile       = "specs/shared/events.yaml"
	IntegrationsFile = "specs/shared/integrations.yaml"
)

// Loader reads a project from a directory tree.
type Loader struct {
	root   string
	fsys   fs.FS
	logger *slog.Logger
}

// NewLoader creates a loader rooted at dir. A "file://" prefix is accepted.
func NewLoader(logger *slog.Logger, root string) loader.Loader {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Loader{
		root:   cleanRoot,
		fsys:   os.DirFS(cleanRoot),
		logger: logger.With("module", "file_loader"),
	}
}

// Close performs any necessary cleanup. For the file loader, there is nothing to clean up.
func (l *Loader) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the project root exists and is a directory.
func (l *Loader) HealthCheck(_ context.Context) error {
	info, err := os.Stat(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		return loader.NewLoadError("HealthCheck", l.root, loader.ErrProjectNotFound)
	}

	if err != nil {
		return loader.NewLoadError("HealthCheck", l.root, err)
	}

	if !info.IsDir() {
		return &loader.LoadError{Op: "HealthCheck", Path: l.root, Err: loader.ErrProjectNotFound, Message: "not a directory"}
	}

	return nil
}

// Load reads flows, schema names and shared definitions.
func (l *Loader) Load(ctx context.Context) (*models.Project, error) {
	if err := l.HealthCheck(ctx); err != nil {
		return nil, err
	}

	project := &models.Project{Name: filepath.Base(filepath.Clean(l.root))}

	if err := l.loadFlows(ctx, project); err != nil {
		return nil, err
	}

	schemas, err := l.schemaNames()
	if err != nil {
		return nil, err
	}

	project.Schemas = schemas

	shared := []struct {
		file   string
		key    string
		field  string
		target *[]string
	}{
		{ErrorsFile, "errors", "code", &project.ErrorCodes},
		{EventsFile, "events", "name", &project.Events},
		{IntegrationsFile, "integrations", "name", &project.Integrations},
	}

	for _, s := range shared {
		names, err := l.sharedNames(s.file, s.key, s.field)
		if err != nil {
			return nil, err
		}

		*s.target = names
	}

	l.logger.InfoContext(ctx, "Loaded project",
		"root", l.root,
		"files", len(project.Files),
		"flows", len(project.Flows),
		"schemas", len(project.Schemas))

	return project, nil
}

func (l *Loader) loadFlows(ctx context.Context, project *models.Project) error {
	files, err := l.glob(FlowsGlob)
	if err != nil {
		return loader.NewLoadError("ListFlows", l.root, err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			return loader.NewLoadError("ReadFlow", name, err)
		}

		doc, err := loader.ParseFlow(data)
		if err != nil {
			l.logger.WarnContext(ctx, "Skipping unparsable flow file", "path", name, "error", err)

			project.Files = append(project.Files, models.SourceFile{
				Path:   name,
				Status: models.FileStatusFailed,
				Error:  err.Error(),
			})

			continue
		}

		doc.Source = name
		project.Flows = append(project.Flows, doc)
		project.Files = append(project.Files, models.SourceFile{Path: name, Status: models.FileStatusParsed})
	}

	return nil
}

// glob matches YAML files only, sorted.
func (l *Loader) glob(pattern string) ([]string, error) {
	var files []string

	for _, ext := range []string{".yaml", ".yml"} {
		matches, err := fs.Glob(l.fsys, pattern+ext)
		if err != nil {
			return nil, err
		}

		files = append(files, matches...)
	}

	slices.Sort(files)

	return files, nil
}

func (l *Loader) schemaNames() ([]string, error) {
	files, err := l.glob(SchemasGlob)
	if err != nil {
		return nil, loader.NewLoadError("ListSchemas", l.root, err)
	}

	names := make([]string, 0, len(files))
	for _, name := range files {
		base := path.Base(name)
		names = append(names, strings.TrimSuffix(base, path.Ext(base)))
	}

	return names, nil
}

// sharedNames reads a list of records under key and collects one field of
// each. A missing file means no definitions.
func (l *Loader) sharedNames(name, key, field string) ([]string, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, loader.NewLoadError("ReadShared", name, err)
	}

	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &loader.LoadError{
			Op:      "ReadShared",
			Path:    name,
			Err:     loader.ErrInvalidShared,
			Message: err.Error(),
		}
	}

	var names []string

	for _, record := range doc[key] {
		value, ok := record[field]
		if !ok {
			continue
		}

		if s := strings.TrimSpace(fmt.Sprint(value)); s != "" {
			names = append(names, s)
		}
	}

	slices.Sort(names)

	return slices.Compact(names), nil
}

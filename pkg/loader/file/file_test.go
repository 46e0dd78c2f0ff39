package file

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/ddd-validator/pkg/loader"
	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFlow = `
flow: {id: create-order, domain: orders}
nodes:
  - id: t1
    type: trigger
    spec: {kind: http}
    connections: [{targetNodeId: end}]
  - id: end
    type: terminal
`

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()

	full := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func setupProject(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "shop")

	writeFile(t, root, "specs/domains/orders/flows/create-order.yaml", validFlow)
	writeFile(t, root, "specs/domains/orders/flows/broken.yaml", "flow: [nope")
	writeFile(t, root, "specs/domains/billing/flows/charge.yml",
		"flow: {id: charge}\nnodes: [{id: t, type: trigger}]\n")
	writeFile(t, root, "specs/domains/billing/flows/README.md", "not a flow")
	writeFile(t, root, "specs/schemas/Order.yaml", "name: Order")
	writeFile(t, root, "specs/schemas/Customer.yml", "name: Customer")
	writeFile(t, root, "specs/shared/errors.yaml",
		"errors:\n  - code: NOT_FOUND\n  - code: PAYMENT_FAILED\n  - message: no code\n")
	writeFile(t, root, "specs/shared/events.yaml", "events:\n  - name: OrderPlaced\n  - name: OrderPlaced\n")

	return root
}

func TestLoader_Load(t *testing.T) {
	root := setupProject(t)
	l := NewLoader(slog.Default(), root)

	project, err := l.Load(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "shop", project.Name)

	require.Len(t, project.Files, 3)
	assert.Equal(t, "specs/domains/billing/flows/charge.yml", project.Files[0].Path)
	assert.Equal(t, models.FileStatusParsed, project.Files[0].Status)
	assert.Equal(t, "specs/domains/orders/flows/broken.yaml", project.Files[1].Path)
	assert.Equal(t, models.FileStatusFailed, project.Files[1].Status)
	assert.NotEmpty(t, project.Files[1].Error)
	assert.Equal(t, models.FileStatusParsed, project.Files[2].Status)

	require.Len(t, project.Flows, 2)
	assert.Equal(t, "charge", project.Flows[0].ID())
	assert.Equal(t, "create-order", project.Flows[1].ID())
	assert.Equal(t, "specs/domains/orders/flows/create-order.yaml", project.Flows[1].Source)

	assert.Equal(t, []string{"Customer", "Order"}, project.Schemas)
	assert.Equal(t, []string{"NOT_FOUND", "PAYMENT_FAILED"}, project.ErrorCodes)
	assert.Equal(t, []string{"OrderPlaced"}, project.Events)
	assert.Empty(t, project.Integrations)

	require.NoError(t, l.Close(t.Context()))
}

func TestLoader_FileScheme(t *testing.T) {
	root := setupProject(t)

	project, err := NewLoader(slog.Default(), "file://"+root).Load(t.Context())
	require.NoError(t, err)
	assert.Len(t, project.Flows, 2)
}

func TestLoader_MissingRoot(t *testing.T) {
	l := NewLoader(slog.Default(), filepath.Join(t.TempDir(), "missing"))

	err := l.HealthCheck(t.Context())
	assert.True(t, loader.IsProjectNotFound(err))

	_, err = l.Load(t.Context())
	assert.True(t, loader.IsProjectNotFound(err))
}

func TestLoader_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "project.yaml", "x: 1")

	err := NewLoader(slog.Default(), filepath.Join(dir, "project.yaml")).HealthCheck(t.Context())
	assert.True(t, loader.IsProjectNotFound(err))
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoader_InvalidSharedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, IntegrationsFile, "integrations: {not: a list}")

	_, err := NewLoader(slog.Default(), root).Load(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrInvalidShared)
}

func TestLoader_EmptyProject(t *testing.T) {
	project, err := NewLoader(slog.Default(), t.TempDir()).Load(t.Context())
	require.NoError(t, err)

	assert.Empty(t, project.Flows)
	assert.Empty(t, project.Files)
	assert.Empty(t, project.Schemas)
}

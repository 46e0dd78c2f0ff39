package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/ddd-validator/pkg/config"
	"github.com/dukex/ddd-validator/pkg/loader/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBus(t *testing.T) {
	bus, err := NewEventBus("", "", slog.Default())
	require.NoError(t, err)
	assert.Nil(t, bus)

	bus, err = NewEventBus(EventBusGoChannel, "", slog.Default())
	require.NoError(t, err)
	require.NotNil(t, bus)
	require.NoError(t, bus.Close())

	_, err = NewEventBus(EventBusKafka, " , ", slog.Default())
	require.Error(t, err)

	_, err = NewEventBus("rabbitmq", "", slog.Default())
	require.ErrorContains(t, err, "unsupported event bus provider")
}

func TestParseLoaderProvider(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "./project", want: "file"},
		{url: "file:///tmp/project", want: "file"},
		{url: "s3://bucket/project", want: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLoaderProvider(tt.url))
		})
	}
}

func TestNewLoader(t *testing.T) {
	l := NewLoader("file://"+t.TempDir(), slog.Default())

	assert.IsType(t, &file.Loader{}, l)
	require.NoError(t, l.HealthCheck(t.Context()))
}

func TestNewCatalog(t *testing.T) {
	cat, err := NewCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 28, cat.Size())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodeTypes:
  - type: trigger
    ports: [default]
  - type: terminal
    ports: []
triggerKinds: [http]
`), 0o644))

	cat, err = NewCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Size())

	_, err = NewCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	cfg := config.Default()
	cfg.Score.Error = 10

	validation, err := NewValidation(cfg, "", nil, nil, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 28, validation.Catalog().Size())

	cfg.Catalog = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewValidation(cfg, "", nil, nil, slog.Default())
	require.Error(t, err)
}

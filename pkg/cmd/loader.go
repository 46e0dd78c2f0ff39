package cmd

import (
	"log/slog"
	"strings"

	"github.com/dukex/ddd-validator/pkg/loader"
	"github.com/dukex/ddd-validator/pkg/loader/file"
)

var supportedLoaderProviders = []string{"file"}

// NewLoader returns the loader for a project location. Plain paths and
// file:// URLs are read from disk.
func NewLoader(projectURL string, logger *slog.Logger) loader.Loader {
	provider := parseLoaderProvider(projectURL)

	switch provider {
	default:
		return file.NewLoader(logger, projectURL)
	}
}

func parseLoaderProvider(projectURL string) string {
	parts := strings.Split(projectURL, "://")

	provider := parts[0]
	for _, supported := range supportedLoaderProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}

// Package source loads the monthly temperature variance document from a URL
// or a local file.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Loader produces a parsed source document.
type Loader interface {
	Load(ctx context.Context) (domain.Document, error)
}

// New picks an HTTP client for http(s) locations and a FileLoader otherwise.
func New(location string, timeout time.Duration, policy domain.RecordPolicy, logger *slog.Logger) Loader {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewClient(location, timeout, policy, logger)
	}
	return NewFileLoader(location, policy, logger)
}

func parse(data []byte, policy domain.RecordPolicy, origin string, logger *slog.Logger) (domain.Document, error) {
	doc, err := domain.ParseDocument(data, policy)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse %s: %w", origin, err)
	}
	for _, rej := range doc.Rejected {
		logger.Warn("skipping invalid record", "source", origin, "index", rej.Index, "error", rej.Err)
	}
	return doc, nil
}

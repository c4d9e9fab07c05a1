package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// FileLoader reads the source document from the local filesystem.
type FileLoader struct {
	path   string
	policy domain.RecordPolicy
	logger *slog.Logger
}

// NewFileLoader creates a loader for the document at path.
func NewFileLoader(path string, policy domain.RecordPolicy, logger *slog.Logger) *FileLoader {
	return &FileLoader{path: path, policy: policy, logger: logger}
}

// Load reads and parses the document.
func (f *FileLoader) Load(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: read %s: %w", domain.ErrFetch, f.path, err)
	}
	return parse(data, f.policy, f.path, f.logger)
}

// String returns the file path.
func (f *FileLoader) String() string {
	return f.path
}

// Package source reads tabular claim exports into records.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Reader dispatches on the file extension: .csv and .tsv go through CSV, .parquet through Parquet.
type Reader struct{}

// Read loads every row of the file at path.
func (Reader) Read(ctx context.Context, path string) ([]domain.Record, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(ctx, path, ',')
	case ".tsv":
		return ReadCSV(ctx, path, '\t')
	case ".parquet":
		return ReadParquet(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unsupported source format %q", domain.ErrInvalidInput, ext)
	}
}

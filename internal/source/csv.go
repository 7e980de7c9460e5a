package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a delimited file whose first row is the header.
// Rows may be shorter or longer than the header; extra cells are ignored.
func ReadCSV(ctx context.Context, path string, comma rune) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return DecodeCSV(ctx, f, comma)
}

// DecodeCSV reads delimited rows from r.
func DecodeCSV(ctx context.Context, r io.Reader, comma rune) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	var records []domain.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		if isBlank(row) {
			continue
		}
		records = append(records, domain.NewRecord(header, row))
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

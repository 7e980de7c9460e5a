package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

const rowBufferSize = 1000

// ReadParquet reads a flat Parquet file. Every top-level column becomes a record column;
// DATE and TIMESTAMP columns are rendered as ISO dates, nulls as empty values.
func ReadParquet(ctx context.Context, path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	cols := resolveColumns(pf.Schema())
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}

	var records []domain.Record
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, rowBufferSize)
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				records = append(records, domain.NewRecord(header, rowValues(buf[i], cols)))
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}
	return records, nil
}

// column is one leaf column of the file schema.
type column struct {
	name string
	kind valueKind
}

type valueKind int

const (
	kindPlain valueKind = iota
	kindDate
	kindTimestampMillis
	kindTimestampMicros
	kindTimestampNanos
)

// resolveColumns lists the leaf columns by top-level name, in schema order.
func resolveColumns(schema *parquet.Schema) []column {
	types := make(map[string]parquet.Type, len(schema.Fields()))
	for _, f := range schema.Fields() {
		types[f.Name()] = f.Type()
	}

	paths := schema.Columns()
	cols := make([]column, len(paths))
	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		cols[i] = column{name: path[0], kind: kindOf(types[path[0]])}
	}
	return cols
}

func kindOf(t parquet.Type) valueKind {
	if t == nil {
		return kindPlain
	}
	lt := t.LogicalType()
	switch {
	case lt == nil:
		return kindPlain
	case lt.Date != nil:
		return kindDate
	case lt.Timestamp != nil:
		switch {
		case lt.Timestamp.Unit.Millis != nil:
			return kindTimestampMillis
		case lt.Timestamp.Unit.Nanos != nil:
			return kindTimestampNanos
		default:
			return kindTimestampMicros
		}
	}
	return kindPlain
}

func rowValues(row parquet.Row, cols []column) []string {
	values := make([]string, len(cols))
	for _, v := range row {
		idx := v.Column()
		if idx < 0 || idx >= len(cols) || v.IsNull() {
			continue
		}
		// list columns repeat; keep the first element like a spreadsheet cell would
		if values[idx] != "" {
			continue
		}
		values[idx] = formatValue(v, cols[idx].kind)
	}
	return values
}

func formatValue(v parquet.Value, kind valueKind) string {
	switch kind {
	case kindDate:
		return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())).Format(time.DateOnly)
	case kindTimestampMillis:
		return time.UnixMilli(v.Int64()).UTC().Format(time.RFC3339)
	case kindTimestampMicros:
		return time.UnixMicro(v.Int64()).UTC().Format(time.RFC3339)
	case kindTimestampNanos:
		return time.Unix(0, v.Int64()).UTC().Format(time.RFC3339)
	}
	return v.String()
}

package domain

import "fmt"

// Reserved document fields.
const (
	FieldID      = "id"
	FieldVector  = "vector"
	FieldContent = "content"
)

// Document is a flat record keyed by field name. Values are scalars, strings,
// string lists (before upload) or the []float32 vector under FieldVector.
type Document map[string]any

// ID returns the document key as a string, or "" when absent.
func (d Document) ID() string {
	switch v := d[FieldID].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Content returns the text that gets embedded.
func (d Document) Content() string {
	s, _ := d[FieldContent].(string)
	return s
}

// Clone returns a shallow copy, so callers can enrich a document without touching the input.
func (d Document) Clone() Document {
	out := make(Document, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

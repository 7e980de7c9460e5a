package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is how the index treats one JSON attribute.
type FieldKind int

const (
	// FieldTag is an exact-match attribute, filtered with @attr:{a | b}.
	FieldTag FieldKind = iota
	// FieldText is a full-text attribute.
	FieldText
	// FieldNumeric is a range-filterable attribute.
	FieldNumeric
	// FieldVector is an HNSW vector attribute.
	FieldVector
)

func (k FieldKind) String() string {
	switch k {
	case FieldTag:
		return "TAG"
	case FieldText:
		return "TEXT"
	case FieldNumeric:
		return "NUMERIC"
	case FieldVector:
		return "VECTOR"
	}
	return "FieldKind(" + strconv.Itoa(int(k)) + ")"
}

// DistanceMetric used for vector similarity.
type DistanceMetric string

const (
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
)

// VectorOptions configures an HNSW vector attribute. Vectors are stored as FLOAT32.
type VectorOptions struct {
	Dim            int
	Distance       DistanceMetric // "" means COSINE
	M              int            // 0 keeps the server default
	EFConstruction int            // 0 keeps the server default
}

// IndexField maps one JSON path to a queryable attribute.
type IndexField struct {
	Path      string // e.g. $.claimAmount
	Attribute string // name queries use, e.g. claimAmount
	Kind      FieldKind
	Sortable  bool
	Separator string // TAG only; "" keeps the server default
	Vector    *VectorOptions
}

// IndexDefinition is an FT.CREATE ... ON JSON definition over one key prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	vectors := 0
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Attribute == "" || !strings.HasPrefix(f.Path, "$") {
			return fmt.Errorf("field %d: attribute and a $ path are required", i)
		}
		if _, dup := seen[f.Attribute]; dup {
			return fmt.Errorf("duplicate attribute %q", f.Attribute)
		}
		seen[f.Attribute] = struct{}{}

		if f.Kind != FieldVector {
			continue
		}
		vectors++
		if f.Vector == nil || f.Vector.Dim <= 0 {
			return fmt.Errorf("vector attribute %q requires a positive dimension", f.Attribute)
		}
	}
	if vectors > 1 {
		return errors.New("at most one vector attribute is supported")
	}
	return nil
}

// Args renders the FT.CREATE arguments following the command name.
func (idx *IndexDefinition) Args() []string {
	args := []string{idx.Name, "ON", "JSON"}
	if idx.Prefix != "" {
		args = append(args, "PREFIX", "1", idx.Prefix)
	}
	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		args = append(args, idx.Fields[i].args()...)
	}
	return args
}

func (f *IndexField) args() []string {
	args := []string{f.Path, "AS", f.Attribute, f.Kind.String()}
	switch f.Kind {
	case FieldTag:
		if f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
	case FieldVector:
		return append(args[:3], f.Vector.args()...)
	}
	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	return args
}

func (v *VectorOptions) args() []string {
	distance := v.Distance
	if distance == "" {
		distance = DistanceCosine
	}
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(v.Dim),
		"DISTANCE_METRIC", string(distance),
	}
	if v.M > 0 {
		attrs = append(attrs, "M", strconv.Itoa(v.M))
	}
	if v.EFConstruction > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(v.EFConstruction))
	}
	return append([]string{"VECTOR", "HNSW", strconv.Itoa(len(attrs))}, attrs...)
}

// String returns the full FT.CREATE command line.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.Args(), " ")
}

// Attributes lists the attribute names in schema order.
func (idx *IndexDefinition) Attributes() []string {
	names := make([]string, len(idx.Fields))
	for i := range idx.Fields {
		names[i] = idx.Fields[i].Attribute
	}
	return names
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}

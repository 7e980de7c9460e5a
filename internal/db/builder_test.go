package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_JSONPaths(t *testing.T) {
	idx := NewIndex("claims").
		Prefix("ragdex:claims:").
		Tag("patientState").
		SortableNumeric("claimAmount").
		MustBuild()

	if idx.Prefix != "ragdex:claims:" {
		t.Errorf("prefix = %q", idx.Prefix)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Path != "$.patientState" || idx.Fields[0].Attribute != "patientState" {
		t.Errorf("field[0] = %+v, want $.patientState AS patientState", idx.Fields[0])
	}
	if !idx.Fields[1].Sortable || idx.Fields[1].Kind != FieldNumeric {
		t.Errorf("field[1] = %+v, want sortable NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_BuildDoesNotAlias(t *testing.T) {
	b := NewIndex("idx").Tag("a")
	first := b.MustBuild()
	b.Text("b")
	second := b.MustBuild()
	if len(first.Fields) != 1 || len(second.Fields) != 2 {
		t.Errorf("builds share fields: %d and %d", len(first.Fields), len(second.Fields))
	}
}

func TestIndexBuilder_Vector(t *testing.T) {
	idx := NewIndex("hnsw-idx").
		Tag("type").
		Vector("vector", VectorOptions{Dim: 3072, M: 10, EFConstruction: 400}).
		MustBuild()

	f := idx.Fields[1]
	if f.Kind != FieldVector || f.Vector == nil {
		t.Fatalf("field = %+v, want vector", f)
	}
	if f.Vector.Dim != 3072 || f.Vector.M != 10 || f.Vector.EFConstruction != 400 {
		t.Errorf("vector options = %+v", *f.Vector)
	}
}

func TestIndexBuilder_List(t *testing.T) {
	f := NewIndex("idx").List(",", "diagnosisCodes").MustBuild().Fields[0]
	if f.Kind != FieldTag || f.Separator != "," {
		t.Errorf("field = %+v, want comma separated tag", f)
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		wantErr string
	}{
		{"empty name", NewIndex("").Tag("x"), "index name is required"},
		{"no fields", NewIndex("idx"), "at least one field"},
		{"vector without dim", NewIndex("idx").Vector("v", VectorOptions{}), "positive dimension"},
		{"invalid characters", NewIndex("idx with spaces").Tag("x"), "invalid characters"},
		{"duplicate attribute", NewIndex("idx").Tag("x").Numeric("x"), "duplicate attribute"},
		{
			"two vectors",
			NewIndex("idx").Vector("a", VectorOptions{Dim: 4}).Vector("b", VectorOptions{Dim: 4}),
			"at most one vector",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_Validate_Path(t *testing.T) {
	def := &IndexDefinition{Name: "idx", Fields: []IndexField{{Path: "claimAmount", Attribute: "claimAmount"}}}
	if err := def.Validate(); err == nil {
		t.Fatal("expected error for a path without $")
	}
}

func TestIndexDefinition_Args(t *testing.T) {
	idx := NewIndex("claims").
		Prefix("ragdex:claims:").
		List(",", "diagnosisCodes").
		SortableNumeric("claimAmount").
		Text("content").
		Vector("vector", VectorOptions{Dim: 3072, M: 10, EFConstruction: 400}).
		MustBuild()

	got := strings.Join(idx.Args(), " ")
	want := "claims ON JSON PREFIX 1 ragdex:claims: SCHEMA " +
		"$.diagnosisCodes AS diagnosisCodes TAG SEPARATOR , " +
		"$.claimAmount AS claimAmount NUMERIC SORTABLE " +
		"$.content AS content TEXT " +
		"$.vector AS vector VECTOR HNSW 10 TYPE FLOAT32 DIM 3072 DISTANCE_METRIC COSINE M 10 EF_CONSTRUCTION 400"
	if got != want {
		t.Errorf("Args:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").Prefix("doc:").Tag("cat").MustBuild()

	want := "FT.CREATE my-idx ON JSON PREFIX 1 doc: SCHEMA $.cat AS cat TAG"
	if s := idx.String(); s != want {
		t.Errorf("String():\ngot:  %q\nwant: %q", s, want)
	}
}

func TestIndexDefinition_Attributes(t *testing.T) {
	names := NewIndex("idx").Tag("a").Text("b").MustBuild().Attributes()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Attributes = %v, want [a b]", names)
	}
}

func TestFieldKind_String(t *testing.T) {
	if FieldNumeric.String() != "NUMERIC" || FieldKind(9).String() != "FieldKind(9)" {
		t.Errorf("unexpected kind names %q %q", FieldNumeric, FieldKind(9))
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, s := range []string{"cms1500-claims", "ragdex:claims:idx", "a_b"} {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	for _, s := range []string{"", "a b", "a/b", "a.b"} {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}

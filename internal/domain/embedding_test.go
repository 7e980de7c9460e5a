package domain

import "testing"

func TestZeroVector(t *testing.T) {
	v := ZeroVector(DefaultEmbeddingDimensions)
	if len(v) != 3072 {
		t.Fatalf("len = %d, want 3072", len(v))
	}
	if !IsZeroVector(v) {
		t.Error("expected zero vector")
	}
	if len(ZeroVector(-1)) != 0 {
		t.Error("negative dimension should give empty vector")
	}
}

func TestIsZeroVector(t *testing.T) {
	if IsZeroVector([]float32{0, 0, 0.001}) {
		t.Error("vector with a non-zero component is not zero")
	}
	if !IsZeroVector(nil) {
		t.Error("nil vector carries no signal")
	}
}

func TestDocument_ID(t *testing.T) {
	tests := []struct {
		doc  Document
		want string
	}{
		{Document{"id": "42"}, "42"},
		{Document{"id": 7}, "7"},
		{Document{}, ""},
	}
	for _, tc := range tests {
		if got := tc.doc.ID(); got != tc.want {
			t.Errorf("ID() = %q, want %q", got, tc.want)
		}
	}
}

func TestDocument_Clone(t *testing.T) {
	orig := Document{"id": "1", "content": "x"}
	c := orig.Clone()
	c["vector"] = []float32{1}
	if _, ok := orig["vector"]; ok {
		t.Error("clone must not write through to the original")
	}
	if c.Content() != "x" {
		t.Errorf("Content() = %q", c.Content())
	}
}

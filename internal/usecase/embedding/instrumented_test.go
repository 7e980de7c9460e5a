package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestInstrumentedEmbedder(t *testing.T) {
	tests := []struct {
		name      string
		inner     *mockEmbedder
		dims      int
		wantErr   error
		wantLevel zapcore.Level
		wantMsg   string
	}{
		{
			name:      "passes usage through",
			inner:     &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 12}},
			dims:      3,
			wantLevel: zapcore.DebugLevel,
			wantMsg:   "Embedding request completed",
		},
		{
			name:      "any length when unconfigured",
			inner:     &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}},
			wantLevel: zapcore.DebugLevel,
			wantMsg:   "Embedding request completed",
		},
		{
			name:      "provider failure",
			inner:     &mockEmbedder{err: errors.New("api error")},
			dims:      3,
			wantErr:   errors.New("api error"),
			wantLevel: zapcore.WarnLevel,
			wantMsg:   "Embedding request failed",
		},
		{
			name:    "wrong dimension",
			inner:   &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}},
			dims:    3,
			wantErr: domain.ErrVectorDimMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			e := NewInstrumentedEmbedder(tt.inner, "openai", "text-embedding-3-large", tt.dims, zap.New(core))

			res, err := e.Embed(context.Background(), "hello")
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case errors.Is(tt.wantErr, domain.ErrVectorDimMismatch) && !errors.Is(err, domain.ErrVectorDimMismatch):
				t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
			case tt.wantErr != nil && err == nil:
				t.Fatal("expected error")
			}
			if err == nil && res.TotalTokens != tt.inner.result.TotalTokens {
				t.Errorf("tokens = %d, want %d", res.TotalTokens, tt.inner.result.TotalTokens)
			}

			if tt.wantMsg == "" {
				return
			}
			entries := logs.FilterMessage(tt.wantMsg).All()
			if len(entries) != 1 {
				t.Fatalf("expected one %q entry, got %d", tt.wantMsg, logs.Len())
			}
			if entries[0].Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", entries[0].Level, tt.wantLevel)
			}
			if entries[0].ContextMap()["model"] != "text-embedding-3-large" {
				t.Errorf("missing model field: %v", entries[0].ContextMap())
			}
		})
	}
}

func TestInstrumentedEmbedder_NilLogger(t *testing.T) {
	e := NewInstrumentedEmbedder(&mockEmbedder{err: errors.New("boom")}, "openai", "m", 0, nil)
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

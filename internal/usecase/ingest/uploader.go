package ingest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/batch"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// ListSeparator joins list-valued fields into one string before upload.
const ListSeparator = ", "

// Partition splits docs into consecutive batches of size (the last may be shorter).
// size < 1 puts everything in one batch.
func Partition(docs []domain.Document, size int) [][]domain.Document {
	if len(docs) == 0 {
		return nil
	}
	if size < 1 || size > len(docs) {
		size = len(docs)
	}
	batches := make([][]domain.Document, 0, (len(docs)+size-1)/size)
	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		batches = append(batches, docs[start:end])
	}
	return batches
}

// Flatten returns a copy of doc where every list value outside the vector field
// is joined with ListSeparator.
func Flatten(doc domain.Document) domain.Document {
	out := doc.Clone()
	for k, v := range out {
		if k == domain.FieldVector || v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			continue
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		out[k] = strings.Join(parts, ListSeparator)
	}
	return out
}

// Uploader embeds and submits documents batch by batch.
type Uploader struct {
	writer BatchWriter
	embed  Embedder
	logger *zap.Logger
}

// NewUploader creates a batch uploader.
func NewUploader(writer BatchWriter, embed Embedder, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{writer: writer, embed: embed, logger: logger}
}

// UploadAll processes every batch in order, sequentially. Failures never stop the run:
// a rejected document is recorded, a failed submission counts the whole batch as failed.
// Documents with a blank content field fail without reaching the embedder.
// Input documents are not modified.
func (u *Uploader) UploadAll(ctx context.Context, docs []domain.Document, size int) batch.UploadOutcome {
	var outcome batch.UploadOutcome
	batches := Partition(docs, size)
	for i, b := range batches {
		start := time.Now()
		results := u.uploadBatch(ctx, i, len(batches), b)
		metrics.IngestBatchDuration.Observe(time.Since(start).Seconds())

		before := outcome.Succeeded
		outcome.Record(results)
		u.recordBatch(i, len(batches), len(b), outcome.Succeeded-before, results)
	}
	return outcome
}

func (u *Uploader) uploadBatch(ctx context.Context, idx, total int, docs []domain.Document) []batch.Result {
	results := make([]batch.Result, len(docs))
	ready := make([]domain.Document, 0, len(docs))
	slots := make([]int, 0, len(docs))

	for i, doc := range docs {
		text := doc.Content()
		if strings.TrimSpace(text) == "" {
			results[i] = batch.NewError(doc.ID(), fmt.Errorf("%w: document has no content", domain.ErrInvalidInput))
			continue
		}
		enriched := Flatten(doc)
		res, err := u.embed.Embed(ctx, text)
		if err != nil {
			results[i] = batch.NewError(doc.ID(), fmt.Errorf("embed: %w", err))
			continue
		}
		enriched[domain.FieldVector] = res.Embedding
		ready = append(ready, enriched)
		slots = append(slots, i)
	}

	if len(ready) == 0 {
		return results
	}

	submitted, err := u.writer.UpsertBatch(ctx, ready)
	if err != nil {
		u.logger.Error("Batch submission failed",
			zap.Int("batch", idx+1),
			zap.Int("batches", total),
			zap.Int("size", len(docs)),
			zap.Error(err),
		)
		for _, slot := range slots {
			results[slot] = batch.NewError(docs[slot].ID(), fmt.Errorf("batch %d: %w", idx+1, err))
		}
		return results
	}

	for j, slot := range slots {
		if j < len(submitted) {
			results[slot] = submitted[j]
			continue
		}
		results[slot] = batch.NewError(docs[slot].ID(), fmt.Errorf("batch %d: no status reported", idx+1))
	}
	return results
}

func (u *Uploader) recordBatch(idx, total, size, succeeded int, results []batch.Result) {
	failed := size - succeeded
	metrics.IngestDocumentsTotal.WithLabelValues("ok").Add(float64(succeeded))
	metrics.IngestDocumentsTotal.WithLabelValues("error").Add(float64(failed))

	switch {
	case failed == 0:
		metrics.IngestBatchesTotal.WithLabelValues("ok").Inc()
		u.logger.Info("Batch uploaded",
			zap.Int("batch", idx+1), zap.Int("batches", total), zap.Int("documents", size))
	case succeeded == 0:
		metrics.IngestBatchesTotal.WithLabelValues("error").Inc()
	default:
		metrics.IngestBatchesTotal.WithLabelValues("partial").Inc()
	}

	if failed == 0 {
		return
	}
	u.logger.Warn("Documents failed in batch",
		zap.Int("batch", idx+1), zap.Int("batches", total),
		zap.Int("failed", failed), zap.Int("size", size))
	for _, r := range results {
		if r.Status() != batch.StatusOK {
			u.logger.Warn("Document rejected", zap.String("id", r.ID()), zap.Error(r.Err()))
		}
	}
}

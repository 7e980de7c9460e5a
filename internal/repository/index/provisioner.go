package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/claims"
)

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Provisioner creates the claims index over the keyspace's JSON documents.
type Provisioner struct {
	store     store
	ks        domain.Keyspace
	vectorDim int
	hnsw      HNSWConfig
}

// New creates an index provisioner.
func New(s store, ks domain.Keyspace, vectorDim int) *Provisioner {
	return &Provisioner{store: s, ks: ks, vectorDim: vectorDim, hnsw: HNSWConfig{M: 10, EFConstruct: 400}}
}

// WithHNSW configures HNSW index parameters.
func (p *Provisioner) WithHNSW(cfg HNSWConfig) *Provisioner {
	if cfg.M > 0 {
		p.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		p.hnsw.EFConstruct = cfg.EFConstruct
	}
	return p
}

// Definition returns the claims index schema.
func (p *Provisioner) Definition() (*db.IndexDefinition, error) {
	b := db.NewIndex(p.ks.IndexName()).
		Prefix(p.ks.DocPrefix()).
		Tag(domain.FieldID).
		Tag(claims.TagFields...).
		List(",", claims.ListFields...).
		Text(domain.FieldContent).
		Text(claims.TextFields...).
		SortableNumeric(claims.AmountFields...)
	for _, f := range claims.DateFields {
		b.SortableNumeric(f + claims.UnixSuffix)
	}
	b.Vector(domain.FieldVector, db.VectorOptions{
		Dim:            p.vectorDim,
		Distance:       db.DistanceCosine,
		M:              p.hnsw.M,
		EFConstruction: p.hnsw.EFConstruct,
	})

	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return def, nil
}

// Ensure creates the index unless it already exists. created reports whether FT.CREATE ran.
func (p *Provisioner) Ensure(ctx context.Context) (bool, error) {
	name := p.ks.IndexName()
	exists, err := p.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	def, err := p.Definition()
	if err != nil {
		return false, err
	}
	if err := p.store.CreateIndex(ctx, def); err != nil {
		// lost a race with another provisioner
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", name, err)
	}
	return true, nil
}

// Drop removes the index. Documents stay in place.
func (p *Provisioner) Drop(ctx context.Context) error {
	name := p.ks.IndexName()
	if err := p.store.DropIndex(ctx, name); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the claims index is present.
func (p *Provisioner) Exists(ctx context.Context) (bool, error) {
	ok, err := p.store.IndexExists(ctx, p.ks.IndexName())
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", p.ks.IndexName(), err)
	}
	return ok, nil
}

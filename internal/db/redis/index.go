package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/db"
)

// CreateIndex runs FT.CREATE for def. An existing index yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index definition: %w", err)
	}

	cmd := s.b().Arbitrary(db.OpCreateIndex).Args(def.Args()...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") || isRedisErr(err, "duplicate index") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Target: def.Name, Err: err}
	}
	return nil
}

// DropIndex runs FT.DROPINDEX without DD, so the JSON documents survive.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary(db.OpDropIndex).Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Target: name, Err: err}
	}
	return nil
}

// IndexExists probes the index with FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary(db.OpIndexInfo).Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Target: name, Err: err}
	}
	return true, nil
}

// isUnknownIndex matches both the RediSearch 2.x and the 8.x wording.
func isUnknownIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}

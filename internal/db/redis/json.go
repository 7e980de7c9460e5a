package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/ragdex/internal/db"
)

// JSONSetMulti pipelines JSON.SET for every item in a single round trip.
// Server-side rejections are reported per item; a client or connection failure
// on any item aborts the whole call since the pipeline state is unknown.
func (s *Store) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) ([]error, error) {
	if len(items) == 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, 0, len(items))
	for _, it := range items {
		cmds = append(cmds, s.b().JsonSet().Key(it.Key).Path(it.Path).Value(string(it.Data)).Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	errs := make([]error, len(items))
	for i, r := range results {
		err := r.Error()
		if err == nil {
			continue
		}
		if _, ok := rueidis.IsRedisErr(err); !ok {
			return nil, &db.Error{Op: db.OpJSONSet, Target: items[i].Key, Err: err}
		}
		errs[i] = &db.Error{Op: db.OpJSONSet, Target: items[i].Key, Err: err}
	}
	return errs, nil
}

// JSONGet retrieves a JSON document by key and optional paths.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	cmd := s.b().JsonGet().Key(key).Path(paths...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Target: key, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Target: key, Err: err}
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	cmd := s.b().Exists().Key(key).Build()
	count, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Target: key, Err: err}
	}
	return count > 0, nil
}

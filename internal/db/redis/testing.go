package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing client, typically one from rueidis/mock.
func NewStoreForTest(c rueidis.Client) *Store { return &Store{client: c} }

package domain

import "strings"

// Keyspace names where one index's documents live in the store.
// Documents are stored under <Prefix><Name>:<id>; the FT index is <Prefix><Name>:idx.
type Keyspace struct {
	Prefix string
	Name   string
}

// IndexName returns the FT index name.
func (k Keyspace) IndexName() string { return k.Prefix + k.Name + ":idx" }

// DocPrefix returns the key prefix covered by the index.
func (k Keyspace) DocPrefix() string { return k.Prefix + k.Name + ":" }

// DocKey returns the storage key for a document id.
func (k Keyspace) DocKey(id string) string { return k.DocPrefix() + id }

// DocID strips the document prefix from a storage key.
func (k Keyspace) DocID(key string) string { return strings.TrimPrefix(key, k.DocPrefix()) }

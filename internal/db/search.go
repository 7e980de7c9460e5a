package db

// Query is the input for a filtered/full-text FT.SEARCH.
// Query holds the full query string in the engine's grammar; "*" matches everything.
type Query struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int // 0 returns only the total
	ReturnFields []string
	SortBy       string
	SortDesc     bool
}

// SearchResult is the output of a search operation.
// Total counts every match, independent of Limit.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// Without ReturnFields a JSON document arrives whole under the "$" field.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// JSONRootField is the field name FT.SEARCH uses for a whole JSON document.
const JSONRootField = "$"

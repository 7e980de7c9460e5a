// Package query holds the request and result types of a single search-service query.
package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// MatchAll is the query text that matches every document.
const MatchAll = "*"

// Request is a validated query against the claims index.
// Filter is forwarded to the search service unmodified.
type Request struct {
	Text    string
	Filter  string
	TopK    int
	Select  []string
	OrderBy string
	Desc    bool
}

// New validates parameters and parses the comma-delimited projection and the
// "<field> [asc|desc]" ordering clause.
func New(text, filter string, topK int, selectFields, orderBy string) (Request, error) {
	if topK < 0 {
		return Request{}, fmt.Errorf("%w: top must not be negative", domain.ErrInvalidInput)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = MatchAll
	}
	field, desc, err := ParseOrder(orderBy)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Text:    text,
		Filter:  strings.TrimSpace(filter),
		TopK:    topK,
		Select:  ParseFields(selectFields),
		OrderBy: field,
		Desc:    desc,
	}, nil
}

// MatchesAll reports whether the request carries no free-text part.
func (r Request) MatchesAll() bool {
	return r.Text == "" || r.Text == MatchAll
}

// ParseFields splits a comma-delimited field list, dropping blanks. nil means "all fields".
func ParseFields(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseOrder parses "field", "field asc" or "field desc".
func ParseOrder(s string) (field string, desc bool, err error) {
	parts := strings.Fields(s)
	switch len(parts) {
	case 0:
		return "", false, nil
	case 1:
		return parts[0], false, nil
	case 2:
		switch strings.ToLower(parts[1]) {
		case "asc":
			return parts[0], false, nil
		case "desc":
			return parts[0], true, nil
		}
	}
	return "", false, fmt.Errorf("%w: order_by must be \"<field> [asc|desc]\", got %q", domain.ErrInvalidInput, s)
}

// Result is the materialized page plus the authoritative match count.
// TotalCount >= len(Documents).
type Result struct {
	Documents  []domain.Document `json:"documents"`
	TotalCount int               `json:"total_count"`
}

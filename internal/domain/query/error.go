package query

import "fmt"

// Error is returned when the search service call fails. Callers decide on fallback behavior.
type Error struct {
	Status string // failing operation as reported by the store, e.g. "FT.SEARCH"
	Detail string
	Err    error
}

// NewError wraps a search failure.
func NewError(status string, err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Status: status, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("query failed: %s", e.Detail)
	}
	return fmt.Sprintf("query failed (%s): %s", e.Status, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

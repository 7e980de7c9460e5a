package db

import "errors"

var (
	// ErrKeyNotFound is returned when a key holds no value.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned for operations on a missing search index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by CreateIndex when the name is taken.
	ErrIndexExists = errors.New("db: index already exists")
)

// Command names recorded in Error.Op.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
	OpDel         = "DEL"
	OpExists      = "EXISTS"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error is a failed server command. Target is the key or index it ran against.
type Error struct {
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	if e.Target == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Target + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// OpOf returns the command of the first *Error in err's chain.
func OpOf(err error) (string, bool) {
	var dbErr *Error
	if !errors.As(err, &dbErr) {
		return "", false
	}
	return dbErr.Op, true
}

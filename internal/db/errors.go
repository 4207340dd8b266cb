package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrDocNotFound = errors.New("db: document not found")
	ErrUnavailable = errors.New("db: store unavailable")
	ErrTimeout     = errors.New("db: request timed out")
	ErrBadQuery    = errors.New("db: query rejected")
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants name store operations for error context.
const (
	OpPing     = "PING"
	OpSearch   = "SEARCH"
	OpGetDoc   = "GET_DOC"
	OpDistinct = "DISTINCT"
	OpGet      = "GET"
	OpSet      = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

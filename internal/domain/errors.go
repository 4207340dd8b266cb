package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals bad pagination or filter values.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStoreUnavailable signals a connection or auth failure against the store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrTimeout signals a store call that exceeded its time bound.
	ErrTimeout = errors.New("store timeout")
	// ErrNotFound signals a point lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrMissingID signals a raw hit without a document id.
	ErrMissingID = errors.New("missing document id")
)

// NormalizationError reports a raw hit that cannot be mapped to a media item.
type NormalizationError struct {
	Field string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Field, e.Err.Error())
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// NewMissingID creates the normalization error for a hit without an id.
func NewMissingID() error {
	return &NormalizationError{Field: "id", Err: ErrMissingID}
}

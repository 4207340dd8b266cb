package mediadex

import "github.com/kailas-cloud/mediadex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrNotFound         = domain.ErrNotFound
	ErrTimeout          = domain.ErrTimeout
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)

package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInsufficientPool = errors.New("not enough distinct terms for quiz options")
	ErrStoreUnavailable = errors.New("knowledge base unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUpstream              = errors.New("upstream failure")
	ErrMalformedRecord       = errors.New("malformed record")
)

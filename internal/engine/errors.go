// internal/engine/errors.go
package engine

import "errors"

// Common engine errors
var (
	ErrTimeout      = errors.New("request timeout")
	ErrInvalidURL   = errors.New("invalid URL")
	ErrNetworkError = errors.New("network error")
	ErrHTTPStatus   = errors.New("unexpected HTTP status")
)

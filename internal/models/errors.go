package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest      = errors.New("either image or holiday must be provided")
	ErrImageDecode         = errors.New("image could not be decoded")
	ErrEndpointUnreachable = errors.New("generation endpoint unreachable")
	ErrStreamTransport     = errors.New("generation stream failed")
	ErrEmptyGeneration     = errors.New("generation returned no text")
	ErrFallbackUnavailable = errors.New("fallback API key not configured")
	ErrFallbackGeneration  = errors.New("fallback generation failed")
)

type Backend string

const (
	BackendPrimary  Backend = "primary"
	BackendFallback Backend = "fallback"
)

// GenerationError records which backend failed and why.
// errors.Is matches both Kind and the wrapped cause.
type GenerationError struct {
	Backend Backend
	Kind    error
	Err     error
}

func NewGenerationError(backend Backend, kind, err error) *GenerationError {
	return &GenerationError{Backend: backend, Kind: kind, Err: err}
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Backend, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// BackendOf reports the backend recorded in err, if any.
func BackendOf(err error) (Backend, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Backend, true
	}
	return "", false
}

// KindOf returns a short label of the sentinel kind carried by err.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrImageDecode):
		return "image_decode"
	case errors.Is(err, ErrEndpointUnreachable):
		return "endpoint_unreachable"
	case errors.Is(err, ErrStreamTransport):
		return "stream_transport"
	case errors.Is(err, ErrEmptyGeneration):
		return "empty_generation"
	case errors.Is(err, ErrFallbackUnavailable):
		return "fallback_unavailable"
	case errors.Is(err, ErrFallbackGeneration):
		return "fallback_generation"
	default:
		return "unknown"
	}
}

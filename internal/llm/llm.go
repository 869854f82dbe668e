package llm

import (
	"context"
	"errors"
)

// Client abstracts the generative model used for resume scoring.
type Client interface {
	// Complete sends one prompt and returns the raw model text. There are no
	// retries; a failed call surfaces to the caller, which falls back for
	// that resume only.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelLister reports the models available to the configured credentials.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ErrUnconfigured is returned when no provider credentials were supplied.
var ErrUnconfigured = errors.New("model client not configured")

// Unconfigured satisfies Client and ModelLister when no API key is present,
// letting the server boot and fail per call instead of at startup.
type Unconfigured struct{}

// Complete returns ErrUnconfigured.
func (Unconfigured) Complete(context.Context, string) (string, error) {
	return "", ErrUnconfigured
}

// ListModels returns ErrUnconfigured.
func (Unconfigured) ListModels(context.Context) ([]string, error) {
	return nil, ErrUnconfigured
}

var (
	_ Client      = Unconfigured{}
	_ ModelLister = Unconfigured{}
)

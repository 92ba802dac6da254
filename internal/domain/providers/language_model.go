package providers

import (
	"context"
	"errors"
)

// ErrLanguageModelUnavailable is returned when the model is not configured
// or rejected the request. Callers are expected to fall back rather than
// propagate it.
var ErrLanguageModelUnavailable = errors.New("language model unavailable")

// LanguageModelProvider defines the interface for the external language
// model collaborator. It is treated as slow and fallible; callers must
// bound it with a context deadline and degrade on any error.
type LanguageModelProvider interface {
	// Complete sends a prompt and returns the raw model text
	Complete(ctx context.Context, prompt string) (string, error)
}

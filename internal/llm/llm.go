package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the external model used to classify feedback text.
type Client interface {
	Classify(ctx context.Context, ticketText string) (json.RawMessage, error)
}

// ErrNotConfigured is returned by the placeholder client when no provider is wired.
var ErrNotConfigured = errors.New("classification model not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
// Jobs processed against it fail with a clear error instead of hanging.
type PlaceholderClient struct{}

// Classify returns ErrNotConfigured.
func (PlaceholderClient) Classify(ctx context.Context, ticketText string) (json.RawMessage, error) {
	_ = ctx
	_ = ticketText
	return nil, ErrNotConfigured
}

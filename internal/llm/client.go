package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts hosted-model providers for text analysis. Implementations
// return the provider's raw JSON output; normalization happens downstream.
type Client interface {
	AnalyzeJobDescription(ctx context.Context, text string) (json.RawMessage, error)
	AnalyzeResume(ctx context.Context, text string) (json.RawMessage, error)
	Provider() string
	Model() string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient stands in when no provider credentials are configured.
type PlaceholderClient struct{}

// AnalyzeJobDescription returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeJobDescription(ctx context.Context, text string) (json.RawMessage, error) {
	_ = ctx
	_ = text
	return nil, ErrNotConfigured
}

// AnalyzeResume returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeResume(ctx context.Context, text string) (json.RawMessage, error) {
	_ = ctx
	_ = text
	return nil, ErrNotConfigured
}

func (PlaceholderClient) Provider() string { return "none" }
func (PlaceholderClient) Model() string    { return "" }

// Package llm is the gateway to the language model backend. It exposes one
// blocking completion operation with streaming token delivery, plus explicit
// model load/unload lifecycle.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNotReady is returned when generation is requested with no model
	// loaded and auto-loading failed.
	ErrNotReady = errors.New("llm: model is not loaded")

	// ErrBusy is returned when a generation is already in progress.
	ErrBusy = errors.New("llm: generation already in progress")
)

// Params are the generation parameters for a completion call.
type Params struct {
	MaxTokens     int
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// DefaultParams returns parameters tuned for small local models.
func DefaultParams() Params {
	return Params{
		MaxTokens:     1024,
		Temperature:   0.1,
		TopP:          0.95,
		RepeatPenalty: 1.1,
	}
}

// TokenFunc receives partial text as it is produced.
type TokenFunc func(token string)

type genRequest struct {
	params       Params
	systemPrompt string
	tokenCb      TokenFunc
}

// GenerateOption customizes a single Generate call.
type GenerateOption func(*genRequest)

// WithParams overrides the client's default generation parameters.
func WithParams(p Params) GenerateOption {
	return func(r *genRequest) { r.params = p }
}

// WithSystemPrompt sets the system prompt for this call.
func WithSystemPrompt(prompt string) GenerateOption {
	return func(r *genRequest) { r.systemPrompt = prompt }
}

// WithTokenCallback streams partial output to cb as it becomes available.
// The full concatenated text is still returned at completion.
func WithTokenCallback(cb TokenFunc) GenerateOption {
	return func(r *genRequest) { r.tokenCb = cb }
}

// Client is the language model gateway. Generate blocks until the full
// completion is available; cancellation is honored between streamed tokens
// via the context.
type Client interface {
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
	Load(ctx context.Context) error
	Unload()
	Ready() bool
}

func newGenRequest(defaults Params, opts []GenerateOption) *genRequest {
	r := &genRequest{
		params:       defaults,
		systemPrompt: SystemPrompt(PromptDefault),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

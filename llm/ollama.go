package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

// OllamaConfig holds configuration for the local Ollama backend.
type OllamaConfig struct {
	BaseURL     string // default "http://localhost:11434"
	Model       string
	Params      Params
	HTTPTimeout time.Duration // default 10m; local generations are slow
	MaxHistory  int           // retained user/assistant exchanges, default 5
}

// OllamaClient is the gateway over a locally hosted model served by Ollama.
type OllamaClient struct {
	client *api.Client
	config OllamaConfig
	logger *zerolog.Logger

	mu         sync.Mutex
	loaded     bool
	generating bool
	history    []api.Message
}

// NewOllamaClient creates a gateway talking to a local Ollama server.
// The model is not loaded until Load is called (or the first Generate).
func NewOllamaClient(cfg OllamaConfig, logger *zerolog.Logger) (*OllamaClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Minute
	}
	if cfg.MaxHistory == 0 {
		cfg.MaxHistory = 5
	}
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	return &OllamaClient{
		client: api.NewClient(baseURL, httpClient),
		config: cfg,
		logger: logger,
	}, nil
}

// Load verifies the configured model is present locally, pulling it from the
// Ollama registry when missing.
func (c *OllamaClient) Load(ctx context.Context) error {
	available, err := c.modelAvailable(ctx)
	if err != nil {
		return c.wrapError(err)
	}
	if !available {
		c.logger.Info().Str("model", c.config.Model).Msg("model not present locally, pulling")
		req := &api.PullRequest{Model: c.config.Model}
		err = c.client.Pull(ctx, req, func(resp api.ProgressResponse) error {
			if resp.Total > 0 {
				pct := float64(resp.Completed) / float64(resp.Total) * 100
				c.logger.Debug().Str("status", resp.Status).Int("percent", int(pct)).Msg("pulling model")
			}
			return ctx.Err()
		})
		if err != nil {
			return fmt.Errorf("failed to pull model %q: %w", c.config.Model, c.wrapError(err))
		}
	}

	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Unload marks the model unloaded and drops conversation state. The next
// Generate re-checks availability.
func (c *OllamaClient) Unload() {
	c.mu.Lock()
	c.loaded = false
	c.history = nil
	c.mu.Unlock()
}

// Ready reports whether a model is loaded.
func (c *OllamaClient) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// ClearHistory drops the retained conversation exchanges.
func (c *OllamaClient) ClearHistory() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
}

// Generate runs one blocking completion. Partial text is streamed to the
// token callback when one is set; the full text is returned at completion.
// Cancellation takes effect between streamed tokens.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	req := newGenRequest(c.config.Params, opts)

	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.generating = true
	loaded := c.loaded
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.generating = false
		c.mu.Unlock()
	}()

	if !loaded {
		if err := c.Load(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotReady, err)
		}
	}

	messages := c.buildMessages(req.systemPrompt, prompt)
	stream := true
	chatReq := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"num_predict":    req.params.MaxTokens,
			"temperature":    req.params.Temperature,
			"top_p":          req.params.TopP,
			"repeat_penalty": req.params.RepeatPenalty,
		},
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			sb.WriteString(resp.Message.Content)
			if req.tokenCb != nil {
				req.tokenCb(resp.Message.Content)
			}
		}
		// Stop signal between streamed increments.
		return ctx.Err()
	})
	if err != nil {
		wrapped := c.wrapError(err)
		if req.tokenCb != nil {
			req.tokenCb("\n\nError: " + wrapped.Error())
		}
		return "", wrapped
	}

	response := strings.TrimSpace(sb.String())
	c.remember(prompt, response)
	return response, nil
}

func (c *OllamaClient) buildMessages(systemPrompt, prompt string) []api.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]api.Message, 0, len(c.history)+2)
	if systemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, c.history...)
	messages = append(messages, api.Message{Role: "user", Content: prompt})
	return messages
}

func (c *OllamaClient) remember(prompt, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history,
		api.Message{Role: "user", Content: prompt},
		api.Message{Role: "assistant", Content: response},
	)
	if max := c.config.MaxHistory * 2; len(c.history) > max {
		c.history = c.history[len(c.history)-max:]
	}
}

func (c *OllamaClient) modelAvailable(ctx context.Context) (bool, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range resp.Models {
		if m.Name == c.config.Model ||
			m.Name == c.config.Model+":latest" ||
			strings.HasPrefix(m.Name, c.config.Model+":") {
			return true, nil
		}
	}
	return false, nil
}

// wrapError turns transport failures into actionable messages.
func (c *OllamaClient) wrapError(err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") {
		return fmt.Errorf("ollama server is not running (start it with 'ollama serve'): %w", err)
	}
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return fmt.Errorf("ollama request timed out (the model may still be loading into memory): %w", err)
	}
	if strings.Contains(errStr, "not found") && strings.Contains(errStr, "model") {
		return fmt.Errorf("model %q is not installed (pull it with 'ollama pull %s'): %w", c.config.Model, c.config.Model, err)
	}
	return err
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	tellm "github.com/santiagomed/tellm/sdk"
	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for any OpenAI-compatible endpoint.
// Locally hosted servers (llama.cpp, vLLM, LM Studio) expose this API too;
// set BaseURL to point the gateway at them.
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string // empty means api.openai.com
	Model    string
	Params   Params
	TellmURL string // optional generation audit log endpoint
	BatchID  string
}

// OpenAIClient is a gateway over an OpenAI-compatible completions endpoint.
type OpenAIClient struct {
	client      *openai.Client
	config      OpenAIConfig
	tellmClient *tellm.Client
	logger      *zerolog.Logger

	mu         sync.Mutex
	generating bool
}

// NewOpenAIClient creates a new OpenAI-compatible gateway.
func NewOpenAIClient(cfg OpenAIConfig, logger *zerolog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("model name is required")
	}
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	var tellmClient *tellm.Client
	if cfg.TellmURL != "" {
		tellmClient = tellm.NewClient(cfg.TellmURL)
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		config:      cfg,
		tellmClient: tellmClient,
		logger:      logger,
	}, nil
}

// Load is a no-op for remote endpoints; the model lives server-side.
func (c *OpenAIClient) Load(ctx context.Context) error { return nil }

// Unload is a no-op for remote endpoints.
func (c *OpenAIClient) Unload() {}

// Ready always reports true; readiness is checked per request server-side.
func (c *OpenAIClient) Ready() bool { return true }

// Generate runs one blocking completion against the endpoint. When a token
// callback is set the streaming API is used and partial deltas are delivered
// as they arrive.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	req := newGenRequest(c.config.Params, opts)

	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.generating = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.generating = false
		c.mu.Unlock()
	}()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		MaxTokens:   req.params.MaxTokens,
		Temperature: float32(req.params.Temperature),
		TopP:        float32(req.params.TopP),
	}

	var res string
	var promptTokens, completionTokens int
	var err error
	if req.tokenCb != nil {
		res, err = c.generateStream(ctx, chatReq, req.tokenCb)
	} else {
		res, promptTokens, completionTokens, err = c.generateBlocking(ctx, chatReq)
	}
	if err != nil {
		return "", err
	}

	if c.tellmClient != nil {
		logErr := c.tellmClient.Log(c.config.BatchID, prompt, res, c.config.Model, promptTokens, completionTokens)
		if logErr != nil {
			c.logger.Warn().Err(logErr).Msg("failed to log to tellm")
		}
	}

	return strings.TrimSpace(res), nil
}

func (c *OpenAIClient) generateBlocking(ctx context.Context, req openai.ChatCompletionRequest) (string, int, int, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, 0, c.mapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, 0, fmt.Errorf("no choices returned from the model")
	}
	return resp.Choices[0].Message.Content, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, nil
}

func (c *OpenAIClient) generateStream(ctx context.Context, req openai.ChatCompletionRequest, cb TokenFunc) (string, error) {
	req.Stream = true
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", c.mapAPIError(err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", c.mapAPIError(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta != "" {
			sb.WriteString(delta)
			cb(delta)
		}
	}
	return sb.String(), nil
}

func (c *OpenAIClient) mapAPIError(err error) error {
	e := &openai.APIError{}
	if errors.As(err, &e) {
		switch e.HTTPStatusCode {
		case 401:
			return fmt.Errorf("unauthorized: invalid API key")
		case 429:
			return fmt.Errorf("rate limited by the API")
		case 500:
			return fmt.Errorf("model server error")
		default:
			return fmt.Errorf("API error: %v", e)
		}
	}
	return err
}

package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"droidsmith/config"
	"droidsmith/core"
	"droidsmith/fs"
	"droidsmith/llm"
)

// newLLMClient builds the configured gateway backend.
func newLLMClient(cfg *config.Config, logger *zerolog.Logger) (llm.Client, error) {
	params := llm.Params{
		MaxTokens:     cfg.MaxTokens,
		Temperature:   cfg.Temperature,
		TopP:          cfg.TopP,
		RepeatPenalty: cfg.RepeatPenalty,
	}

	switch cfg.LLMBackend {
	case "ollama":
		return llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.ModelName,
			Params:  params,
		}, logger)
	case "openai":
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:   cfg.OpenAIAPIKey,
			BaseURL:  cfg.OpenAIBaseURL,
			Model:    cfg.ModelName,
			Params:   params,
			TellmURL: cfg.TellmURL,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown llm backend: %s", cfg.LLMBackend)
	}
}

// newAgent assembles the generation pipeline over the real filesystem.
func newAgent(cfg *config.Config, logger *zerolog.Logger) (*core.Agent, error) {
	client, err := newLLMClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return core.NewAgent(client, fs.NewOsManager(), logger), nil
}

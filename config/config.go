package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
type Config struct {
	// Language model gateway
	LLMBackend    string  `mapstructure:"llm_backend"` // "ollama" or "openai"
	ModelName     string  `mapstructure:"model_name"`
	OllamaURL     string  `mapstructure:"ollama_url"`
	OpenAIAPIKey  string  `mapstructure:"openai_api_key"`
	OpenAIBaseURL string  `mapstructure:"openai_base_url"`
	TellmURL      string  `mapstructure:"tellm_url"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	Temperature   float64 `mapstructure:"temperature"`
	TopP          float64 `mapstructure:"top_p"`
	RepeatPenalty float64 `mapstructure:"repeat_penalty"`

	// Project output
	OutputDir string `mapstructure:"output_dir"`

	// Build toolchain
	ToolsDir            string   `mapstructure:"tools_dir"`
	GradleVersion       string   `mapstructure:"gradle_version"`
	CmdlineToolsVersion string   `mapstructure:"cmdline_tools_version"`
	SDKPackages         []string `mapstructure:"sdk_packages"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	appDir := filepath.Join(home, ".droidsmith")
	return &Config{
		LLMBackend:          "ollama",
		ModelName:           "qwen2.5-coder",
		OllamaURL:           "http://localhost:11434",
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		MaxTokens:           1024,
		Temperature:         0.1,
		TopP:                0.95,
		RepeatPenalty:       1.1,
		OutputDir:           filepath.Join(appDir, "output"),
		ToolsDir:            filepath.Join(appDir, "tools"),
		GradleVersion:       "8.5",
		CmdlineToolsVersion: "11076708",
		SDKPackages: []string{
			"platform-tools",
			"platforms;android-34",
			"build-tools;34.0.0",
		},
	}
}

// Load reads configuration from file or environment variables.
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".droidsmith"))

	v.SetDefault("llm_backend", config.LLMBackend)
	v.SetDefault("model_name", config.ModelName)
	v.SetDefault("ollama_url", config.OllamaURL)
	v.SetDefault("max_tokens", config.MaxTokens)
	v.SetDefault("temperature", config.Temperature)
	v.SetDefault("top_p", config.TopP)
	v.SetDefault("repeat_penalty", config.RepeatPenalty)
	v.SetDefault("output_dir", config.OutputDir)
	v.SetDefault("tools_dir", config.ToolsDir)
	v.SetDefault("gradle_version", config.GradleVersion)
	v.SetDefault("cmdline_tools_version", config.CmdlineToolsVersion)
	v.SetDefault("sdk_packages", config.SDKPackages)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and env vars apply.
	}

	v.SetEnvPrefix("DROIDSMITH")
	v.AutomaticEnv()
	v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validate(config *Config) error {
	switch config.LLMBackend {
	case "ollama":
		if config.OllamaURL == "" {
			return fmt.Errorf("ollama_url is required for the ollama backend")
		}
	case "openai":
		if config.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown llm_backend %q (want ollama or openai)", config.LLMBackend)
	}
	if config.ModelName == "" {
		return fmt.Errorf("model_name is required")
	}
	return nil
}

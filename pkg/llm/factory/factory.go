package factory

import (
	"fmt"

	"ai-studybot-be/pkg/llm"
	"ai-studybot-be/pkg/llm/gigachat"
	"ai-studybot-be/pkg/llm/ollama"
)

// Config carries provider-specific settings so the caller doesn't need to
// know which fields each backend wants.
type Config struct {
	Provider     string // "gigachat" or "ollama"
	Model        string
	BaseURL      string
	ClientID     string // gigachat only
	ClientSecret string // gigachat only
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "gigachat":
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("gigachat provider requires client credentials")
		}
		return gigachat.NewGigaChatProvider(cfg.ClientID, cfg.ClientSecret, cfg.Model, cfg.BaseURL), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

package factory

import (
	"context"
	"fmt"

	"petmatch/internal/config"
	"petmatch/pkg/llm"
	"petmatch/pkg/llm/gemini"
	"petmatch/pkg/llm/ollama"
)

// NewLLMProvider builds the configured backend. For Gemini without a key it
// returns llm.ErrMissingCredential; callers keep running without a provider.
func NewLLMProvider(ctx context.Context, cfg config.AIConfig) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "gemini", "":
		provider, err := gemini.NewProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiAPIVersion, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

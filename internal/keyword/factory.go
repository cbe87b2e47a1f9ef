package keyword

import (
	"fmt"
	"strings"

	"github.com/concordgraph/concord/internal/config"
)

// NewExtractor selects the provider client. An empty provider returns
// (nil, nil): extraction is optional and callers must then supply
// keywords explicitly.
func NewExtractor(cfg config.ExtractionConfig) (Extractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil

	case "openai":
		return newLLMExtractor(newOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL), cfg.Prompt), nil

	case "claude":
		return newLLMExtractor(newClaudeGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL), cfg.Prompt), nil

	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return newLLMExtractor(newOpenAIGenerator(apiKey, cfg.Model, baseURL), cfg.Prompt), nil

	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", cfg.Provider)
	}
}

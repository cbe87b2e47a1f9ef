// Package keyword is the client side of the keyword-extraction
// collaborator. The core only depends on the Extractor interface; the
// concrete clients turn free text into a ranked keyword list by prompting
// an LLM provider.
package keyword

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/concordgraph/concord/internal/core/model"
)

type Extractor interface {
	// Extract returns keywords ranked by frequency in [0, 1]. UserHints
	// are words the author flagged themselves; they come back at full
	// frequency with the user source.
	Extract(ctx context.Context, text string, userHints []string) ([]model.KeywordWithFrequency, error)
}

// generator is the single capability the concrete providers supply.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const defaultPrompt = `Extract up to 8 keywords from the text below. Respond with a JSON object
of the form {"keywords": [{"word": "example", "frequency": 0.8}]} where
frequency in (0, 1] reflects how central the keyword is. Keywords are
single lowercase words.

Text:
%s`

type llmExtractor struct {
	gen    generator
	prompt string
}

func newLLMExtractor(gen generator, prompt string) *llmExtractor {
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultPrompt
	}
	return &llmExtractor{gen: gen, prompt: prompt}
}

type extractionResult struct {
	Keywords []struct {
		Word      string  `json:"word"`
		Frequency float64 `json:"frequency"`
	} `json:"keywords"`
}

func (e *llmExtractor) Extract(ctx context.Context, text string, userHints []string) ([]model.KeywordWithFrequency, error) {
	response, err := e.gen.Generate(ctx, fmt.Sprintf(e.prompt, text))
	if err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}

	result, err := parseJSON[extractionResult](response)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction returned malformed output: %w", err)
	}

	seen := make(map[string]bool)
	var keywords []model.KeywordWithFrequency

	// User hints win over extracted duplicates and carry full weight.
	for _, hint := range userHints {
		word := strings.ToLower(strings.TrimSpace(hint))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, model.KeywordWithFrequency{
			Word:      word,
			Frequency: 1.0,
			Source:    model.KeywordSourceUser,
		})
	}

	for _, kw := range result.Keywords {
		word := strings.ToLower(strings.TrimSpace(kw.Word))
		if word == "" || seen[word] {
			continue
		}
		freq := kw.Frequency
		if freq <= 0 || freq > 1 {
			continue
		}
		seen[word] = true
		keywords = append(keywords, model.KeywordWithFrequency{
			Word:      word,
			Frequency: freq,
			Source:    model.KeywordSourceExtractor,
		})
	}

	return keywords, nil
}

// parseJSON cleans and unmarshals a JSON object from an LLM response,
// tolerating surrounding markdown or prose.
func parseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 || end == -1 || end < start {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

package keyword

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// openAIGenerator speaks the OpenAI chat API, which also covers Ollama
// and other compatible endpoints via BaseURL.
type openAIGenerator struct {
	client *openai.Client
	model  string
}

func newOpenAIGenerator(apiKey, model, baseURL string) *openAIGenerator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("no response choices")
}

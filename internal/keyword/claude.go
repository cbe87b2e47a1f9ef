package keyword

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type claudeGenerator struct {
	client *anthropic.Client
	model  string
}

func newClaudeGenerator(apiKey, model, baseURL string) *claudeGenerator {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}

	return &claudeGenerator{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (g *claudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(g.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: 1000,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}

package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Client adapts the OpenAI-compatible chat completions API to llm.ChatModel.
// One instance is constructed at process start and injected into every
// generator; there is no hidden global lookup.
type Client struct {
	api         *openai.Client
	Model       string
	Temperature float32
}

// New builds a client. baseURL may point at any OpenAI-compatible gateway;
// empty keeps the SDK default.
func New(apiKey, baseURL, model string, temperature float32) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		Model:       model,
		Temperature: temperature,
	}
}

func (c *Client) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("llm client is not configured")
	}
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: c.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by model")
	}
	return resp.Choices[0].Message.Content, nil
}

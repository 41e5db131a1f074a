package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIGenerator adapts a langchaingo chat-completion client to the
// Generator contract.
type OpenAIGenerator struct {
	llm *openai.LLM
}

// NewOpenAIGenerator builds a generator against an OpenAI-compatible
// chat-completion endpoint.
func NewOpenAIGenerator(apiKey, baseURL, model string) (*OpenAIGenerator, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing generation client: %w", err)
	}
	return &OpenAIGenerator{llm: llm}, nil
}

// Generate sends the prompt as a single human message and flattens the
// response choices into one string. An empty or unrecognized response shape
// is stringified as a last resort rather than dropped.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	resp, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return flatten(resp), nil
}

func flatten(resp *llms.ContentResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, choice := range resp.Choices {
		if choice == nil {
			continue
		}
		if choice.Content != "" {
			parts = append(parts, choice.Content)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%v", resp)
	}
	return strings.Join(parts, "\n")
}

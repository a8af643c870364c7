package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAI talks to OpenAI or any compatible endpoint when baseURL is set.
func NewOpenAI(apiKey, baseURL, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// NewAzureOpenAI talks to an Azure OpenAI deployment.
func NewAzureOpenAI(apiKey, endpoint, deployment string) *OpenAIClient {
	config := openai.DefaultAzureConfig(apiKey, endpoint)
	config.AzureModelMapperFunc = func(string) string {
		return deployment
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  deployment,
	}
}

func (c *OpenAIClient) Complete(
	ctx context.Context,
	messages []domain.LLMMessage,
	opts domain.GenerationOptions,
) (*domain.Completion, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: openaiRole(m.Role), Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	out := &domain.Completion{
		Usage: domain.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	for i, ch := range resp.Choices {
		if i == 0 {
			out.FinishReason = string(ch.FinishReason)
		}
		if strings.TrimSpace(ch.Message.Content) != "" {
			out.Fragments = append(out.Fragments, ch.Message.Content)
		}
	}
	return out, nil
}

func openaiRole(r domain.MessageRole) string {
	switch r {
	case domain.MessageRoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.MessageRoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

type VertexClient struct {
	client    *genai.Client
	modelName string
}

// VertexConfig selects the Gemini backend: Vertex AI when Project is set,
// the Gemini API when APIKey is set.
type VertexConfig struct {
	Project   string
	Location  string
	APIKey    string
	ModelName string
}

// NewVertexClient creates an LLMClient based on Vertex AI / Gemini.
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "" && cfg.Location != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("either an API key or project and location must be set")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements domain.LLMClient using Gemini.
func (v *VertexClient) Complete(
	ctx context.Context,
	messages []domain.LLMMessage,
	opts domain.GenerationOptions,
) (*domain.Completion, error) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case domain.MessageRoleSystem:
			system = append(system, m.Content)
		case domain.MessageRoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		case domain.MessageRoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}

	temp := opts.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(opts.MaxOutputTokens),
	}
	if len(system) > 0 {
		// According to official examples, the role here is usually RoleUser, not "system"
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("vertex generate content: %w", err)
	}

	out := &domain.Completion{}
	if len(res.Candidates) > 0 {
		cand := res.Candidates[0]
		out.FinishReason = string(cand.FinishReason)
		if cand.Content != nil {
			for _, p := range cand.Content.Parts {
				if p != nil && p.Text != "" && !p.Thought {
					out.Fragments = append(out.Fragments, p.Text)
				}
			}
		}
	}
	if res.UsageMetadata != nil {
		out.Usage.InputTokens = int(res.UsageMetadata.PromptTokenCount)
		out.Usage.OutputTokens = int(res.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/shop-assistant/internal/config"
	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// NewClient creates the gateway selected by cfg.LLMProvider.
func NewClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderMock:
		return NewMockLLM(), nil
	case config.ProviderVertex:
		return NewVertexClient(ctx, VertexConfig{
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
	case config.ProviderGemini:
		return NewVertexClient(ctx, VertexConfig{
			APIKey:    cfg.GeminiAPIKey,
			ModelName: cfg.ModelName,
		})
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.ProviderAzure:
		return NewAzureOpenAI(cfg.AzureAPIKey, cfg.AzureEndpoint, cfg.AzureDeployment), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}

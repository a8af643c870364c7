package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	ProviderMock   = "mock"
	ProviderVertex = "vertex"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StorageSQL       = "sql"
)

type Config struct {
	Mode Mode   `env:"ASSIST_MODE" envDefault:"local"`
	Port string `env:"ASSIST_PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// LLM provider
	LLMProvider string        `env:"ASSIST_LLM_PROVIDER"`
	LLMTimeout  time.Duration `env:"ASSIST_LLM_TIMEOUT" envDefault:"30s"`

	GCPProjectID string `env:"ASSIST_GCP_PROJECT"`
	GCPLocation  string `env:"ASSIST_GCP_LOCATION" envDefault:"us-central1"`
	GeminiAPIKey string `env:"GOOGLE_API_KEY"`
	ModelName    string `env:"ASSIST_MODEL_NAME" envDefault:"gemini-2.5-flash-lite"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	AzureEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIKey     string `env:"AZURE_OPENAI_API_KEY"`
	AzureDeployment string `env:"AZURE_OPENAI_DEPLOYMENT"`

	// Generation and context bounds
	Temperature        float32 `env:"ASSIST_TEMPERATURE" envDefault:"0.7"`
	MaxTokens          int     `env:"ASSIST_MAX_TOKENS" envDefault:"400"`
	MaxHistoryMessages int     `env:"ASSIST_MAX_HISTORY_MESSAGES" envDefault:"10"`
	MaxProductContext  int     `env:"ASSIST_MAX_PRODUCT_CONTEXT" envDefault:"20"`
	MaxRecommendations int     `env:"ASSIST_MAX_RECOMMENDATIONS" envDefault:"3"`

	// Storage
	StorageBackend string `env:"ASSIST_STORAGE_BACKEND" envDefault:"memory"` // "memory", "firestore" or "sql"
	SQLDriver      string `env:"ASSIST_SQL_DRIVER" envDefault:"sqlite"`      // "sqlite" or "postgres"
	SQLDSN         string `env:"ASSIST_SQL_DSN" envDefault:"file:assistant.db?_foreign_keys=on"`
	SeedCatalog    bool   `env:"ASSIST_SEED_CATALOG" envDefault:"true"`
	SeedSize       int    `env:"ASSIST_SEED_SIZE" envDefault:"50"`
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.LLMProvider == "" {
		// local runs stay offline unless a provider is chosen explicitly
		if cfg.Mode == ModeGCP {
			cfg.LLMProvider = ProviderVertex
		} else {
			cfg.LLMProvider = ProviderMock
		}
	}
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	cfg.StorageBackend = strings.ToLower(cfg.StorageBackend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations a process cannot start without.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeGCP:
	default:
		return fmt.Errorf("unknown ASSIST_MODE %q", c.Mode)
	}

	switch c.LLMProvider {
	case ProviderMock:
	case ProviderVertex:
		if c.GCPProjectID == "" {
			return fmt.Errorf("ASSIST_GCP_PROJECT must be set for the vertex provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY must be set for the gemini provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set for the openai provider")
		}
	case ProviderAzure:
		if c.AzureEndpoint == "" || c.AzureAPIKey == "" || c.AzureDeployment == "" {
			return fmt.Errorf("AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT must be set for the azure provider")
		}
	default:
		return fmt.Errorf("unknown ASSIST_LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("ASSIST_GCP_PROJECT is required for the firestore storage backend")
		}
	case StorageSQL:
		if c.SQLDSN == "" {
			return fmt.Errorf("ASSIST_SQL_DSN is required for the sql storage backend")
		}
	default:
		return fmt.Errorf("unknown ASSIST_STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.MaxHistoryMessages < 0 || c.MaxProductContext < 0 || c.MaxRecommendations < 0 {
		return fmt.Errorf("context bounds must not be negative")
	}
	return nil
}

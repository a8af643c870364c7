package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

var catalogSKU = regexp.MustCompile(`(?m)^(SKU-[0-9]{4}) \| ([^|]+) \|`)

// MockLLM is an offline gateway for local mode and tests. It recommends the
// first product listed in the system prompt.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(ctx context.Context, messages []domain.LLMMessage, _ domain.GenerationOptions) (*domain.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("mock llm: no messages")
	}

	var system string
	if messages[0].Role == domain.MessageRoleSystem {
		system = messages[0].Content
	}
	user := messages[len(messages)-1].Content

	text := fmt.Sprintf("You said %q. I couldn't find a matching product in the catalog right now.", user)
	if match := catalogSKU.FindStringSubmatch(system); match != nil {
		text = fmt.Sprintf("You said %q. You might like %s (%s).", user, strings.TrimSpace(match[2]), match[1])
	}

	return &domain.Completion{
		Fragments:    []string{text},
		FinishReason: "stop",
		Usage: domain.TokenUsage{
			InputTokens:  approxTokens(messages),
			OutputTokens: len(text) / 4,
		},
	}, nil
}

func approxTokens(messages []domain.LLMMessage) int {
	n := 0
	for _, m := range messages {
		n += len(m.Content) / 4
	}
	return n
}

package conversation

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

const systemPersona = "You are a concise retail shopping assistant."

// BuildMessages assembles the ordered message list sent to the model:
// system instruction with the catalog, the history window (oldest first) and
// the new user message verbatim.
//
// The catalog line format and the SKU-#### instruction must stay in sync with
// SKUMatcher.
func BuildMessages(
	catalog []domain.CatalogEntry,
	history []*domain.ChatTurn,
	userMessage string,
	maxRecommendations int,
) []domain.LLMMessage {
	msgs := make([]domain.LLMMessage, 0, len(history)+2)
	msgs = append(msgs, domain.LLMMessage{
		Role:    domain.MessageRoleSystem,
		Content: BuildSystemPrompt(catalog, maxRecommendations),
	})

	for _, t := range history {
		switch t.Role {
		case domain.RoleUser:
			msgs = append(msgs, domain.LLMMessage{Role: domain.MessageRoleUser, Content: t.Content})
		case domain.RoleAssistant:
			msgs = append(msgs, domain.LLMMessage{Role: domain.MessageRoleAssistant, Content: t.Content})
		default:
			// unknown roles are skipped
		}
	}

	msgs = append(msgs, domain.LLMMessage{Role: domain.MessageRoleUser, Content: userMessage})
	return msgs
}

// BuildSystemPrompt renders the instruction block and one catalog line per entry.
func BuildSystemPrompt(catalog []domain.CatalogEntry, maxRecommendations int) string {
	var b strings.Builder
	b.WriteString(systemPersona + "\n")
	if maxRecommendations > 0 {
		fmt.Fprintf(&b, "Recommend up to %d products using ONLY the provided catalog.\n", maxRecommendations)
	} else {
		b.WriteString("Recommend products using ONLY the provided catalog.\n")
	}
	b.WriteString("Return product references by SKU in the exact form SKU-#### (e.g., SKU-0001).\n")
	b.WriteString("If user asks unrelated things, steer back to shopping.\n")
	b.WriteString("\nCatalog:\n")
	for _, e := range catalog {
		b.WriteString(CatalogLine(e))
		b.WriteString("\n")
	}
	b.WriteString("\nOutput: natural helpful reply. Mention SKU codes explicitly when recommending.\n")
	return b.String()
}

// CatalogLine formats an entry as "SKU | Name | Category | Price".
func CatalogLine(e domain.CatalogEntry) string {
	return fmt.Sprintf("%s | %s | %s | %s%.2f", e.SKU, e.Name, e.Category, currencySymbol(e.Currency), e.Price)
}

func currencySymbol(code string) string {
	switch strings.ToUpper(code) {
	case "GBP":
		return "£"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "":
		return ""
	default:
		return strings.ToUpper(code) + " "
	}
}

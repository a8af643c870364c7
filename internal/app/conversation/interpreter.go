package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

const defaultReasonContext = "shopping"

// ProductRecommendation is a catalog entry surfaced to the shopper for one turn.
type ProductRecommendation struct {
	ProductID   domain.ProductID
	SKU         string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Reason      string
}

// Interpreter maps a model reply back to catalog entries.
type Interpreter struct {
	matcher            *SKUMatcher
	catalog            domain.CatalogProvider
	maxRecommendations int
}

// NewInterpreter builds an Interpreter. maxRecommendations <= 0 disables the cap.
func NewInterpreter(matcher *SKUMatcher, catalog domain.CatalogProvider, maxRecommendations int) *Interpreter {
	return &Interpreter{
		matcher:            matcher,
		catalog:            catalog,
		maxRecommendations: maxRecommendations,
	}
}

// Interpret returns the recommendations referenced by reply, in the order the
// model mentioned them. SKUs unknown to the active catalog are dropped.
func (i *Interpreter) Interpret(ctx context.Context, reply, pageContext string) ([]ProductRecommendation, error) {
	skus := i.matcher.Extract(reply)
	if len(skus) == 0 {
		return nil, nil
	}

	found, err := i.catalog.LookupBySKU(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("lookup recommended skus: %w", err)
	}

	reason := recommendationReason(pageContext)

	var out []ProductRecommendation
	for _, sku := range skus {
		entry, ok := found[sku]
		if !ok {
			continue
		}
		out = append(out, ProductRecommendation{
			ProductID:   entry.ID,
			SKU:         entry.SKU,
			Name:        entry.Name,
			Description: entry.Description,
			Price:       entry.Price,
			ImageURL:    entry.ImageURL,
			Reason:      reason,
		})
		if i.maxRecommendations > 0 && len(out) == i.maxRecommendations {
			break
		}
	}
	return out, nil
}

func recommendationReason(pageContext string) string {
	c := strings.TrimSpace(pageContext)
	if c == "" {
		c = defaultReasonContext
	}
	return fmt.Sprintf("Recommended based on your interest in %s.", c)
}

package conversation_test

import (
	"context"
	"testing"

	"github.com/PabloGalante/shop-assistant/internal/adapters/storage/memory"
	"github.com/PabloGalante/shop-assistant/internal/app/conversation"
	"github.com/PabloGalante/shop-assistant/internal/domain"
)

func testCatalog() *memory.CatalogStore {
	return memory.NewCatalogStore(
		domain.CatalogEntry{ID: 1, SKU: "SKU-0001", Name: "Scarf", Category: "Apparel", Price: 12.5, Currency: "GBP", Active: true},
		domain.CatalogEntry{ID: 2, SKU: "SKU-0002", Name: "Headphones", Category: "Electronics", Price: 80, Currency: "GBP", Active: true},
		domain.CatalogEntry{ID: 7, SKU: "SKU-0007", Name: "Mug", Category: "Home", Price: 7.99, Currency: "GBP", Active: true},
		domain.CatalogEntry{ID: 8, SKU: "SKU-0008", Name: "Old Mug", Category: "Home", Price: 3, Currency: "GBP", Active: false},
		domain.CatalogEntry{ID: 42, SKU: "SKU-0042", Name: "Trail Runner", Description: "Grippy.", Category: "Footwear", Price: 59.99, Currency: "GBP", Active: true},
	)
}

func TestInterpretDedupAndOrder(t *testing.T) {
	in := conversation.NewInterpreter(conversation.NewSKUMatcher(), testCatalog(), 0)

	recs, err := in.Interpret(context.Background(), "Try SKU-0007, then SKU-0002 and SKU-0007 again.", "")
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ProductID != 7 || recs[1].ProductID != 2 {
		t.Fatalf("model order must be kept, got %+v", recs)
	}
	if recs[0].Reason != "Recommended based on your interest in shopping." {
		t.Fatalf("unexpected reason %q", recs[0].Reason)
	}
}

func TestInterpretDropsUnknownAndInactive(t *testing.T) {
	in := conversation.NewInterpreter(conversation.NewSKUMatcher(), testCatalog(), 0)

	recs, err := in.Interpret(context.Background(), "SKU-9999 and SKU-0008", "cart")
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestInterpretUsesPageContextAndCap(t *testing.T) {
	in := conversation.NewInterpreter(conversation.NewSKUMatcher(), testCatalog(), 2)

	recs, err := in.Interpret(context.Background(), "SKU-0042 SKU-0001 SKU-0002", "cart")
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(recs))
	}
	r := recs[0]
	if r.Name != "Trail Runner" || r.Description != "Grippy." || r.Price != 59.99 {
		t.Fatalf("unexpected mapping: %+v", r)
	}
	if r.Reason != "Recommended based on your interest in cart." {
		t.Fatalf("unexpected reason %q", r.Reason)
	}
}

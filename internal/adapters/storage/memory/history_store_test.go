package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/PabloGalante/shop-assistant/internal/adapters/storage/memory"
	"github.com/PabloGalante/shop-assistant/internal/domain"
)

func TestHistoryStoreRecentTurnsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHistoryStore()

	for i := 0; i < 5; i++ {
		err := store.AppendTurns(ctx,
			&domain.ChatTurn{SessionID: "s1", Role: domain.RoleUser, Content: fmt.Sprintf("q%d", i)},
			&domain.ChatTurn{SessionID: "s1", Role: domain.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
		if err != nil {
			t.Fatalf("AppendTurns failed: %v", err)
		}
	}
	if err := store.AppendTurns(ctx, &domain.ChatTurn{SessionID: "other", Role: domain.RoleUser, Content: "x"}); err != nil {
		t.Fatalf("AppendTurns failed: %v", err)
	}

	got, err := store.RecentTurns(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	want := []string{"a4", "q4", "a3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Content != w {
			t.Fatalf("turn %d: expected %q, got %q", i, w, got[i].Content)
		}
	}
	if got[0].ID <= got[1].ID {
		t.Fatalf("expected descending ids, got %d then %d", got[0].ID, got[1].ID)
	}
}

func TestHistoryStoreRejectsInvalidPairAtomically(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHistoryStore()

	err := store.AppendTurns(ctx,
		&domain.ChatTurn{SessionID: "s1", Role: domain.RoleUser, Content: "hi"},
		&domain.ChatTurn{SessionID: "s1", Role: domain.Role("system"), Content: "nope"},
	)
	if !errors.Is(err, domain.ErrInvalidTurn) {
		t.Fatalf("expected ErrInvalidTurn, got %v", err)
	}
	if n := store.Count("s1"); n != 0 {
		t.Fatalf("expected no turns written, got %d", n)
	}
}

func TestHistoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHistoryStore()

	turn := &domain.ChatTurn{SessionID: "s1", Role: domain.RoleAssistant, Content: "hello", RecommendedProductIDs: []domain.ProductID{1}}
	if err := store.AppendTurns(ctx, turn); err != nil {
		t.Fatalf("AppendTurns failed: %v", err)
	}
	turn.Content = "mutated"
	turn.RecommendedProductIDs[0] = 99

	got, _ := store.RecentTurns(ctx, "s1", 1)
	if got[0].Content != "hello" || got[0].RecommendedProductIDs[0] != 1 {
		t.Fatalf("internal state mutated via caller's turn: %+v", got[0])
	}
}

func TestHistoryStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHistoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendTurns(ctx,
				&domain.ChatTurn{SessionID: "s1", Role: domain.RoleUser, Content: "q"},
				&domain.ChatTurn{SessionID: "s1", Role: domain.RoleAssistant, Content: "a"},
			)
			_, _ = store.RecentTurns(ctx, "s1", 10)
		}()
	}
	wg.Wait()

	if n := store.Count("s1"); n != 40 {
		t.Fatalf("expected 40 turns, got %d", n)
	}
}

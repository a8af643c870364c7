package conversation_test

import (
	"context"
	"errors"
	"sync"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// stubLLM returns a fixed reply and records what it was asked.
type stubLLM struct {
	mu       sync.Mutex
	reply    *domain.Completion
	err      error
	calls    int
	messages []domain.LLMMessage
	opts     domain.GenerationOptions
}

func replyWith(text string) *stubLLM {
	return &stubLLM{reply: &domain.Completion{
		Fragments:    []string{text},
		FinishReason: "stop",
		Usage:        domain.TokenUsage{InputTokens: 10, OutputTokens: 5},
	}}
}

func (s *stubLLM) Complete(ctx context.Context, msgs []domain.LLMMessage, opts domain.GenerationOptions) (*domain.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.messages = msgs
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

// blockingLLM waits for cancellation.
type blockingLLM struct{}

func (blockingLLM) Complete(ctx context.Context, _ []domain.LLMMessage, _ domain.GenerationOptions) (*domain.Completion, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// failingHistory wraps a store and fails writes.
type failingHistory struct {
	domain.HistoryStore
	appendErr error
	readErr   error
}

func (f *failingHistory) AppendTurns(ctx context.Context, turns ...*domain.ChatTurn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.HistoryStore.AppendTurns(ctx, turns...)
}

func (f *failingHistory) RecentTurns(ctx context.Context, id domain.SessionID, limit int) ([]*domain.ChatTurn, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.HistoryStore.RecentTurns(ctx, id, limit)
}

// failingCatalog wraps a catalog and fails the configured reads.
type failingCatalog struct {
	domain.CatalogProvider
	listErr   error
	lookupErr error
}

func (f *failingCatalog) ListActive(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.CatalogProvider.ListActive(ctx, limit)
}

func (f *failingCatalog) LookupBySKU(ctx context.Context, skus []string) (map[string]domain.CatalogEntry, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.CatalogProvider.LookupBySKU(ctx, skus)
}

// panickingLLM blows up inside the gateway call.
type panickingLLM struct{}

func (panickingLLM) Complete(context.Context, []domain.LLMMessage, domain.GenerationOptions) (*domain.Completion, error) {
	panic("nil pointer in provider sdk")
}

var errBoom = errors.New("boom")

package domain

import "context"

// LLMClient defines how the core application interacts with a chat-completion provider.
type LLMClient interface {
	Complete(ctx context.Context, messages []LLMMessage, opts GenerationOptions) (*Completion, error)
}

// HistoryStore is the append-only log of chat turns, partitioned by session.
// Implementations must be safe for concurrent reads and appends.
type HistoryStore interface {
	// AppendTurns writes all turns or none of them, assigning their IDs.
	AppendTurns(ctx context.Context, turns ...*ChatTurn) error
	// RecentTurns returns at most limit turns of a session, newest first.
	RecentTurns(ctx context.Context, sessionID SessionID, limit int) ([]*ChatTurn, error)
}

// CatalogProvider exposes a bounded snapshot of the active catalog.
type CatalogProvider interface {
	// ListActive returns at most limit active entries in a stable order.
	ListActive(ctx context.Context, limit int) ([]CatalogEntry, error)
	// LookupBySKU returns the active entries found for skus, keyed by SKU.
	LookupBySKU(ctx context.Context, skus []string) (map[string]CatalogEntry, error)
}

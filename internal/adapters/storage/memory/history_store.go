package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// HistoryStore is an in-memory domain.HistoryStore.
// It is NOT persistent and is only suitable for development / local mode.
type HistoryStore struct {
	mu     sync.RWMutex
	nextID domain.TurnID
	turns  map[domain.SessionID][]*domain.ChatTurn
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		turns: make(map[domain.SessionID][]*domain.ChatTurn),
	}
}

// AppendTurns validates every turn before writing any of them.
func (s *HistoryStore) AppendTurns(ctx context.Context, turns ...*domain.ChatTurn) error {
	for _, t := range turns {
		if err := domain.ValidateTurn(t); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range turns {
		s.nextID++
		t.ID = s.nextID

		stored := *t
		stored.RecommendedProductIDs = slices.Clone(t.RecommendedProductIDs)
		s.turns[t.SessionID] = append(s.turns[t.SessionID], &stored)
	}
	return nil
}

// RecentTurns returns copies of the newest limit turns, newest first.
func (s *HistoryStore) RecentTurns(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatTurn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*domain.ChatTurn{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[sessionID]
	n := min(limit, len(all))

	out := make([]*domain.ChatTurn, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		cp := *all[i]
		cp.RecommendedProductIDs = slices.Clone(all[i].RecommendedProductIDs)
		out = append(out, &cp)
	}
	return out, nil
}

// Count returns the number of stored turns for a session.
func (s *HistoryStore) Count(sessionID domain.SessionID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[sessionID])
}

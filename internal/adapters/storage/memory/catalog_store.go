package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// CatalogStore is an in-memory domain.CatalogProvider ordered by product id.
type CatalogStore struct {
	mu      sync.RWMutex
	entries []domain.CatalogEntry
	bySKU   map[string]int
}

func NewCatalogStore(entries ...domain.CatalogEntry) *CatalogStore {
	s := &CatalogStore{bySKU: make(map[string]int)}
	s.Put(entries...)
	return s
}

// Put inserts or replaces entries by SKU.
func (s *CatalogStore) Put(entries ...domain.CatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if i, ok := s.bySKU[e.SKU]; ok {
			s.entries[i] = e
			continue
		}
		s.entries = append(s.entries, e)
	}

	slices.SortStableFunc(s.entries, func(a, b domain.CatalogEntry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	clear(s.bySKU)
	for i, e := range s.entries {
		s.bySKU[e.SKU] = i
	}
}

func (s *CatalogStore) ListActive(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []domain.CatalogEntry{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatalogEntry, 0, min(limit, len(s.entries)))
	for _, e := range s.entries {
		if !e.Active {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *CatalogStore) LookupBySKU(ctx context.Context, skus []string) (map[string]domain.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.CatalogEntry, len(skus))
	for _, sku := range skus {
		i, ok := s.bySKU[sku]
		if !ok || !s.entries[i].Active {
			continue
		}
		out[sku] = s.entries[i]
	}
	return out, nil
}

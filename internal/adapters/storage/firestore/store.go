package firestore

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// Firestore caps "in" filters at 30 values.
const maxInValues = 30

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) turnsCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(sessionID).Collection("turns")
}

func (s *Store) sessionDoc(sessionID domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection("sessions").Doc(string(sessionID))
}

func (s *Store) productsCol() *firestore.CollectionRef {
	return s.client.Collection("products")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type turnDoc struct {
	ID                    int64     `firestore:"id"`
	SessionID             string    `firestore:"session_id"`
	Role                  string    `firestore:"role"`
	Content               string    `firestore:"content"`
	CreatedAt             time.Time `firestore:"created_at"`
	RecommendedProductIDs string    `firestore:"recommended_product_ids,omitempty"`
}

// sessionCounter lives on sessions/{sid}; turn ids are unique per session.
type sessionCounter struct {
	NextID int64 `firestore:"next_id"`
}

type productDoc struct {
	ID          int64   `firestore:"id"`
	SKU         string  `firestore:"sku"`
	Name        string  `firestore:"name"`
	Description string  `firestore:"description"`
	Category    string  `firestore:"category"`
	Price       float64 `firestore:"price"`
	Currency    string  `firestore:"currency"`
	ImageURL    string  `firestore:"image_url"`
	IsActive    bool    `firestore:"is_active"`
}

// ─────────────────────────────────────────
// HistoryStore implementation
// ─────────────────────────────────────────

// AppendTurns reserves ids from each session's counter and writes every turn
// in the same transaction. Sessions never contend with each other.
func (s *Store) AppendTurns(ctx context.Context, turns ...*domain.ChatTurn) error {
	for _, t := range turns {
		if err := domain.ValidateTurn(t); err != nil {
			return err
		}
	}
	if len(turns) == 0 {
		return nil
	}

	var sessions []domain.SessionID
	for _, t := range turns {
		if !slices.Contains(sessions, t.SessionID) {
			sessions = append(sessions, t.SessionID)
		}
	}

	ids := make([]domain.TurnID, len(turns))
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// all reads before any write
		counters := make(map[domain.SessionID]int64, len(sessions))
		for _, sid := range sessions {
			snap, err := tx.Get(s.sessionDoc(sid))
			switch {
			case status.Code(err) == codes.NotFound:
				counters[sid] = 0
			case err != nil:
				return err
			default:
				var c sessionCounter
				if err := snap.DataTo(&c); err != nil {
					return fmt.Errorf("decode session counter: %w", err)
				}
				counters[sid] = c.NextID
			}
		}

		for i, t := range turns {
			counters[t.SessionID]++
			ids[i] = domain.TurnID(counters[t.SessionID])

			doc := turnDoc{
				ID:                    int64(ids[i]),
				SessionID:             string(t.SessionID),
				Role:                  string(t.Role),
				Content:               t.Content,
				CreatedAt:             t.CreatedAt,
				RecommendedProductIDs: domain.JoinProductIDs(t.RecommendedProductIDs),
			}
			ref := s.turnsCol(t.SessionID).Doc(strconv.FormatInt(int64(ids[i]), 10))
			if err := tx.Create(ref, doc); err != nil {
				return err
			}
		}

		for _, sid := range sessions {
			err := tx.Set(s.sessionDoc(sid), map[string]any{"next_id": counters[sid]}, firestore.MergeAll)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("firestore AppendTurns: %w", err)
	}

	for i, t := range turns {
		t.ID = ids[i]
	}
	return nil
}

func (s *Store) RecentTurns(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatTurn, error) {
	if limit <= 0 {
		return []*domain.ChatTurn{}, nil
	}

	iter := s.turnsCol(sessionID).OrderBy("id", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var out []*domain.ChatTurn
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore RecentTurns: %w", err)
		}

		var doc turnDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode turnDoc: %w", err)
		}

		ids, err := domain.ParseProductIDs(doc.RecommendedProductIDs)
		if err != nil {
			return nil, fmt.Errorf("decode turnDoc %s: %w", snap.Ref.ID, err)
		}

		out = append(out, &domain.ChatTurn{
			ID:                    domain.TurnID(doc.ID),
			SessionID:             sessionID,
			Role:                  domain.Role(doc.Role),
			Content:               doc.Content,
			CreatedAt:             doc.CreatedAt,
			RecommendedProductIDs: ids,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// CatalogProvider implementation
// ─────────────────────────────────────────

func (s *Store) ListActive(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	if limit <= 0 {
		return []domain.CatalogEntry{}, nil
	}

	q := s.productsCol().Where("is_active", "==", true).OrderBy("id", firestore.Asc).Limit(limit)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.CatalogEntry
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListActive: %w", err)
		}

		var doc productDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode productDoc: %w", err)
		}
		out = append(out, doc.toEntry())
	}
	return out, nil
}

func (s *Store) LookupBySKU(ctx context.Context, skus []string) (map[string]domain.CatalogEntry, error) {
	out := make(map[string]domain.CatalogEntry, len(skus))

	for start := 0; start < len(skus); start += maxInValues {
		chunk := skus[start:min(start+maxInValues, len(skus))]

		iter := s.productsCol().Where("sku", "in", chunk).Documents(ctx)
		for {
			snap, err := iter.Next()
			if err != nil {
				if err == iterator.Done {
					break
				}
				iter.Stop()
				return nil, fmt.Errorf("firestore LookupBySKU: %w", err)
			}

			var doc productDoc
			if err := snap.DataTo(&doc); err != nil {
				iter.Stop()
				return nil, fmt.Errorf("decode productDoc: %w", err)
			}
			if doc.IsActive {
				out[doc.SKU] = doc.toEntry()
			}
		}
		iter.Stop()
	}
	return out, nil
}

// SeedProducts writes entries when the products collection is empty.
func (s *Store) SeedProducts(ctx context.Context, entries []domain.CatalogEntry) (bool, error) {
	iter := s.productsCol().Limit(1).Documents(ctx)
	_, err := iter.Next()
	iter.Stop()
	if err == nil {
		return false, nil
	}
	if err != iterator.Done {
		return false, fmt.Errorf("firestore SeedProducts: %w", err)
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(entries))
	for _, e := range entries {
		job, err := bw.Set(s.productsCol().Doc(e.SKU), fromEntry(e))
		if err != nil {
			bw.End()
			return false, fmt.Errorf("firestore SeedProducts: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return false, fmt.Errorf("firestore SeedProducts: %w", err)
		}
	}
	return true, nil
}

func (d productDoc) toEntry() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:          domain.ProductID(d.ID),
		SKU:         d.SKU,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Currency:    d.Currency,
		ImageURL:    d.ImageURL,
		Active:      d.IsActive,
	}
}

func fromEntry(e domain.CatalogEntry) productDoc {
	return productDoc{
		ID:          int64(e.ID),
		SKU:         e.SKU,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Price:       e.Price,
		Currency:    e.Currency,
		ImageURL:    e.ImageURL,
		IsActive:    e.Active,
	}
}

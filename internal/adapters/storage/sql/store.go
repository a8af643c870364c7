// Package sql persists chat turns and reads the catalog through GORM.
package sql

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

type Store struct {
	db *gorm.DB
}

// Open connects with the named driver ("sqlite" or "postgres") and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return NewStore(db)
}

// NewStore wraps an existing connection and migrates the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&chatMessage{}, &product{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AppendTurns inserts every turn inside one transaction.
func (s *Store) AppendTurns(ctx context.Context, turns ...*domain.ChatTurn) error {
	for _, t := range turns {
		if err := domain.ValidateTurn(t); err != nil {
			return err
		}
	}

	rows := make([]chatMessage, len(turns))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, t := range turns {
			rows[i] = toChatMessage(t)
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sql AppendTurns: %w", err)
	}

	for i, t := range turns {
		t.ID = domain.TurnID(rows[i].ID)
	}
	return nil
}

func (s *Store) RecentTurns(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatTurn, error) {
	if limit <= 0 {
		return []*domain.ChatTurn{}, nil
	}

	var rows []chatMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", string(sessionID)).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sql RecentTurns: %w", err)
	}

	out := make([]*domain.ChatTurn, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTurn()
		if err != nil {
			return nil, fmt.Errorf("sql RecentTurns: decode row %d: %w", r.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) ListActive(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	if limit <= 0 {
		return []domain.CatalogEntry{}, nil
	}

	var rows []product
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sql ListActive: %w", err)
	}

	out := make([]domain.CatalogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntry())
	}
	return out, nil
}

func (s *Store) LookupBySKU(ctx context.Context, skus []string) (map[string]domain.CatalogEntry, error) {
	out := make(map[string]domain.CatalogEntry, len(skus))
	if len(skus) == 0 {
		return out, nil
	}

	var rows []product
	err := s.db.WithContext(ctx).
		Where("sku IN ? AND is_active = ?", skus, true).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sql LookupBySKU: %w", err)
	}

	for _, r := range rows {
		out[r.SKU] = r.toEntry()
	}
	return out, nil
}

// SeedProducts inserts entries when the products table is empty.
func (s *Store) SeedProducts(ctx context.Context, entries []domain.CatalogEntry) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("sql SeedProducts: %w", err)
	}
	if count > 0 || len(entries) == 0 {
		return false, nil
	}

	rows := make([]product, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, fromEntry(e))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return false, fmt.Errorf("sql SeedProducts: %w", err)
	}
	return true, nil
}

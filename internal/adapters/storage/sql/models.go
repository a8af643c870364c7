package sql

import (
	"time"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

// chatMessage is one row of the chat_messages table.
type chatMessage struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	SessionID             string    `gorm:"type:varchar(128);not null;index"`
	Role                  string    `gorm:"type:varchar(16);not null"`
	Content               string    `gorm:"type:text;not null"`
	Timestamp             time.Time `gorm:"not null"`
	RecommendedProductIDs *string   `gorm:"type:text"`
}

func (chatMessage) TableName() string { return "chat_messages" }

type product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	SKU         string  `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name        string  `gorm:"type:text;not null"`
	Description string  `gorm:"type:text"`
	Category    string  `gorm:"type:varchar(64)"`
	Price       float64 `gorm:"not null"`
	Currency    string  `gorm:"type:varchar(3);not null"`
	ImageURL    string  `gorm:"type:text"`
	IsActive    bool    `gorm:"not null;index"`
}

func (product) TableName() string { return "products" }

func toChatMessage(t *domain.ChatTurn) chatMessage {
	m := chatMessage{
		SessionID: string(t.SessionID),
		Role:      string(t.Role),
		Content:   t.Content,
		Timestamp: t.CreatedAt,
	}
	if len(t.RecommendedProductIDs) > 0 {
		ids := domain.JoinProductIDs(t.RecommendedProductIDs)
		m.RecommendedProductIDs = &ids
	}
	return m
}

func (m chatMessage) toTurn() (*domain.ChatTurn, error) {
	t := &domain.ChatTurn{
		ID:        domain.TurnID(m.ID),
		SessionID: domain.SessionID(m.SessionID),
		Role:      domain.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.Timestamp,
	}
	if m.RecommendedProductIDs != nil {
		ids, err := domain.ParseProductIDs(*m.RecommendedProductIDs)
		if err != nil {
			return nil, err
		}
		t.RecommendedProductIDs = ids
	}
	return t, nil
}

func (p product) toEntry() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:          domain.ProductID(p.ID),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		Active:      p.IsActive,
	}
}

func fromEntry(e domain.CatalogEntry) product {
	return product{
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

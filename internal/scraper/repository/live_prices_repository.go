package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-market-scryper/internal/entity"
)

// LivePricesRepository owns write access to the live_prices table.
type LivePricesRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) LivePricesRepository
	// Append inserts a new tick. Ticks are never updated or deduplicated.
	Append(ctx context.Context, tick *entity.LivePrice) error
}

type livePricesRepository struct {
	db *gorm.DB
}

// NewLivePricesRepository creates a new instance of LivePricesRepository.
func NewLivePricesRepository(db *gorm.DB) LivePricesRepository {
	return &livePricesRepository{db: db}
}

func (r *livePricesRepository) WithTx(tx *gorm.DB) LivePricesRepository {
	return &livePricesRepository{db: tx}
}

func (r *livePricesRepository) Append(ctx context.Context, tick *entity.LivePrice) error {
	return r.db.WithContext(ctx).Create(tick).Error
}

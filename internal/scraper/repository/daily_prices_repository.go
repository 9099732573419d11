package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-market-scryper/internal/entity"
)

// DailyPricesRepository owns write access to the daily_prices table.
type DailyPricesRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) DailyPricesRepository
	// Upsert inserts the record or replaces the existing one keyed by
	// (stock_id, date). Calling it twice with the same values is a no-op.
	Upsert(ctx context.Context, price *entity.DailyPrice) error
}

type dailyPricesRepository struct {
	db *gorm.DB
}

// NewDailyPricesRepository creates a new instance of DailyPricesRepository.
func NewDailyPricesRepository(db *gorm.DB) DailyPricesRepository {
	return &dailyPricesRepository{db: db}
}

func (r *dailyPricesRepository) WithTx(tx *gorm.DB) DailyPricesRepository {
	return &dailyPricesRepository{db: tx}
}

func (r *dailyPricesRepository) Upsert(ctx context.Context, price *entity.DailyPrice) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(price).Error
}

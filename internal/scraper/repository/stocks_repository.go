package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"golang-market-scryper/internal/entity"
)

// StocksRepository owns write access to the stocks table.
type StocksRepository interface {
	// WithTx returns a repository bound to the given transaction, sharing the
	// symbol cache of the receiver.
	WithTx(tx *gorm.DB) StocksRepository
	// GetOrCreate returns the stock for the symbol, creating it with
	// name defaulted to the symbol on first encounter. Existing stocks are
	// never mutated.
	GetOrCreate(ctx context.Context, symbol string) (*entity.Stock, error)
}

type stocksRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	// created tracks symbols inserted by this transaction-bound repository.
	// Nil outside a transaction.
	created map[string]struct{}
}

// NewStocksRepository creates a new instance of StocksRepository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{
		db:    db,
		cache: cache.New(30*time.Minute, time.Hour),
	}
}

func (r *stocksRepository) WithTx(tx *gorm.DB) StocksRepository {
	return &stocksRepository{db: tx, cache: r.cache, created: map[string]struct{}{}}
}

func (r *stocksRepository) GetOrCreate(ctx context.Context, symbol string) (*entity.Stock, error) {
	if cached, ok := r.cache.Get(symbol); ok {
		return cached.(*entity.Stock), nil
	}

	var stock entity.Stock
	res := r.db.WithContext(ctx).
		Where(entity.Stock{Symbol: symbol}).
		Attrs(entity.Stock{Name: symbol, IsActive: true}).
		FirstOrCreate(&stock)
	if res.Error != nil {
		return nil, res.Error
	}

	// Rows created inside an uncommitted transaction stay out of the shared
	// cache: a rollback would leave the cache pointing at an ID that no
	// longer exists. Pre-existing rows survive a rollback and are safe.
	if r.created != nil {
		if res.RowsAffected > 0 {
			r.created[symbol] = struct{}{}
		}
		if _, ours := r.created[symbol]; ours {
			return &stock, nil
		}
	}

	r.cache.Set(symbol, &stock, cache.DefaultExpiration)
	return &stock, nil
}

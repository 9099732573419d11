package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LivePrice is an append-only tick captured from the live-trading page.
// Ticks are immutable once written; many per stock per day are expected.
type LivePrice struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	StockID       uint                `gorm:"not null;index" json:"stock_id"`
	LTP           decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"ltp"`
	Change        decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"change"`
	ChangePercent decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"change_percent"`
	Volume        int64               `gorm:"not null;default:0" json:"volume"`
	High          decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"high,omitempty"`
	Low           decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"low,omitempty"`
	Timestamp     time.Time           `gorm:"index;not null" json:"timestamp"`
}

// TableName specifies the table name for the LivePrice model.
func (LivePrice) TableName() string {
	return "live_prices"
}

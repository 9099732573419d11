package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyPrice is one OHLCV summary per stock per trading date.
// At most one row exists per (stock_id, date); writes go through an upsert.
type DailyPrice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	StockID   uint            `gorm:"not null;uniqueIndex:idx_daily_prices_stock_date" json:"stock_id"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_daily_prices_stock_date" json:"date"`
	Open      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"open"`
	High      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"high"`
	Low       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"low"`
	Close     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"close"`
	Volume    int64           `gorm:"not null;default:0" json:"volume"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the DailyPrice model.
func (DailyPrice) TableName() string {
	return "daily_prices"
}

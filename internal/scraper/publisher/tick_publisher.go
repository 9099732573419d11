// Package publisher forwards captured ticks to a Redis stream for
// downstream consumers. Publishing is fire-and-forget: a publish failure
// never blocks persistence.
package publisher

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"golang-market-scryper/internal/entity"
)

// TickPublisher publishes live-price ticks.
type TickPublisher interface {
	Publish(ctx context.Context, stock *entity.Stock, tick *entity.LivePrice) error
}

type redisTickPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisTickPublisher publishes ticks to a capped Redis stream.
func NewRedisTickPublisher(client *redis.Client, stream string, maxLen int64) TickPublisher {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &redisTickPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (p *redisTickPublisher) Publish(ctx context.Context, stock *entity.Stock, tick *entity.LivePrice) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"symbol":         stock.Symbol,
			"ltp":            tick.LTP.String(),
			"change":         tick.Change.String(),
			"change_percent": tick.ChangePercent.String(),
			"volume":         tick.Volume,
			"timestamp":      tick.Timestamp.Format(time.RFC3339),
		},
	}).Err()
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"golang-market-scryper/internal/entity"
	"golang-market-scryper/internal/scraper/browser"
	"golang-market-scryper/internal/scraper/config"
	"golang-market-scryper/internal/scraper/dto"
	"golang-market-scryper/internal/scraper/historical"
	"golang-market-scryper/internal/scraper/live"
	"golang-market-scryper/internal/scraper/normalize"
	"golang-market-scryper/internal/scraper/parser"
	"golang-market-scryper/internal/scraper/publisher"
	"golang-market-scryper/internal/scraper/repository"
	"golang-market-scryper/pkg/logger"
	"golang-market-scryper/pkg/telegram"
	"golang-market-scryper/pkg/utils"
)

// errMissingClose marks a historical row without a close price. The close is
// the anchor field; a record cannot be upserted without it.
var errMissingClose = errors.New("missing close price")

// LiveFetcher is the live-snapshot source as seen by the orchestrator.
type LiveFetcher interface {
	Fetch(ctx context.Context) []live.Quote
}

// IngestionService runs the two ingestion pipelines.
//
// Transaction policy is intentionally asymmetric, matching the sources:
// the historical path commits one symbol's full page set atomically, while the
// live path commits per-stock writes inside one transaction but never rolls
// back earlier stocks because a later one failed.
type IngestionService interface {
	IngestLiveSnapshot(ctx context.Context, limit int) (*dto.IngestionReport, error)
	IngestHistorical(ctx context.Context, symbol string, maxPages int, headless bool) (*dto.IngestionReport, error)
}

type ingestionService struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	fetcher     LiveFetcher
	newActor    browser.Factory
	stocks      repository.StocksRepository
	dailyPrices repository.DailyPricesRepository
	livePrices  repository.LivePricesRepository
	publisher   publisher.TickPublisher // nil when no redis is configured
	notifier    telegram.Notifier       // nil when no bot token is configured
}

// NewIngestionService creates a new instance of IngestionService.
func NewIngestionService(
	cfg *config.Config,
	log *logger.Logger,
	db *gorm.DB,
	fetcher LiveFetcher,
	newActor browser.Factory,
	stocks repository.StocksRepository,
	dailyPrices repository.DailyPricesRepository,
	livePrices repository.LivePricesRepository,
	tickPublisher publisher.TickPublisher,
	notifier telegram.Notifier,
) IngestionService {
	return &ingestionService{
		cfg:         cfg,
		log:         log,
		db:          db,
		fetcher:     fetcher,
		newActor:    newActor,
		stocks:      stocks,
		dailyPrices: dailyPrices,
		livePrices:  livePrices,
		publisher:   tickPublisher,
		notifier:    notifier,
	}
}

// IngestLiveSnapshot fetches the live-trading page once and persists every
// retained row: today's DailyPrice is upserted and a LivePrice tick appended.
// A failure on one stock is logged and skipped, the rest keep going.
func (s *ingestionService) IngestLiveSnapshot(ctx context.Context, limit int) (*dto.IngestionReport, error) {
	report := &dto.IngestionReport{Source: "live"}

	quotes := s.fetcher.Fetch(ctx)
	if len(quotes) == 0 {
		s.log.Warn("no live data scraped")
		return report, nil
	}
	if limit > 0 && limit < len(quotes) {
		s.log.Info("processing limited snapshot", logger.IntField("limit", limit))
		quotes = quotes[:limit]
	}
	report.Scraped = len(quotes)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stocks := s.stocks.WithTx(tx)
		dailyPrices := s.dailyPrices.WithTx(tx)
		livePrices := s.livePrices.WithTx(tx)

		for _, quote := range quotes {
			if err := s.saveQuote(ctx, stocks, dailyPrices, livePrices, quote); err != nil {
				s.log.Error("failed to save stock",
					logger.StringField("symbol", quote.Symbol),
					logger.ErrorField(err),
				)
				continue
			}
			report.Saved++
			s.log.Debug("saved stock", logger.StringField("symbol", quote.Symbol))
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("live ingestion transaction failed: %w", err)
	}

	s.log.Info("live ingestion finished", logger.StringField("result", report.Summary()))
	s.notify(report)
	return report, nil
}

func (s *ingestionService) saveQuote(
	ctx context.Context,
	stocks repository.StocksRepository,
	dailyPrices repository.DailyPricesRepository,
	livePrices repository.LivePricesRepository,
	quote live.Quote,
) error {
	stock, err := stocks.GetOrCreate(ctx, quote.Symbol)
	if err != nil {
		return fmt.Errorf("get or create stock: %w", err)
	}

	daily := &entity.DailyPrice{
		StockID: stock.ID,
		Date:    utils.DateNowMarket(),
		Open:    orFallback(quote.Open, quote.LTP),
		High:    orFallback(quote.High, quote.LTP),
		Low:     orFallback(quote.Low, quote.LTP),
		Close:   quote.LTP,
		Volume:  quote.Volume,
	}
	if err := dailyPrices.Upsert(ctx, daily); err != nil {
		return fmt.Errorf("upsert daily price: %w", err)
	}

	tick := &entity.LivePrice{
		StockID:       stock.ID,
		LTP:           quote.LTP,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
		High:          quote.High,
		Low:           quote.Low,
		Timestamp:     utils.TimeNowMarket(),
	}
	if err := livePrices.Append(ctx, tick); err != nil {
		return fmt.Errorf("append live price: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, stock, tick); err != nil {
			s.log.Warn("failed to publish tick",
				logger.StringField("symbol", stock.Symbol),
				logger.ErrorField(err),
			)
		}
	}
	return nil
}

// IngestHistorical backfills one symbol's daily prices by driving a browser
// session through the price-history site. The automation actor is released on
// every exit path; all accumulated pages commit in a single transaction.
func (s *ingestionService) IngestHistorical(ctx context.Context, symbol string, maxPages int, headless bool) (*dto.IngestionReport, error) {
	report := &dto.IngestionReport{Source: "historical", Symbol: symbol}
	if maxPages <= 0 {
		maxPages = s.cfg.Scraper.Historical.MaxPages
	}

	actor, err := s.newActor(headless)
	if err != nil {
		return report, fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := actor.Close(); err != nil {
			s.log.Warn("failed to close browser", logger.ErrorField(err))
		}
	}()

	navigator := historical.New(actor, s.cfg, s.log)
	rows, err := navigator.Run(ctx, symbol, maxPages)
	if err != nil {
		return report, fmt.Errorf("price history navigation failed for %s: %w", symbol, err)
	}
	report.Scraped = len(rows)
	if len(rows) == 0 {
		s.log.Warn("no historical data scraped", logger.StringField("symbol", symbol))
		return report, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stocks := s.stocks.WithTx(tx)
		dailyPrices := s.dailyPrices.WithTx(tx)

		stock, err := stocks.GetOrCreate(ctx, symbol)
		if err != nil {
			return fmt.Errorf("get or create stock: %w", err)
		}

		for _, row := range rows {
			record, err := buildDailyPrice(stock.ID, row)
			if errors.Is(err, errMissingClose) {
				s.log.Debug("skipping row without close price",
					logger.StringField("date", row[parser.FieldDate]))
				continue
			}
			if err != nil {
				s.log.Error("failed to build daily price",
					logger.StringField("date", row[parser.FieldDate]),
					logger.ErrorField(err),
				)
				continue
			}
			if err := dailyPrices.Upsert(ctx, record); err != nil {
				s.log.Error("failed to save daily price",
					logger.StringField("date", row[parser.FieldDate]),
					logger.ErrorField(err),
				)
				continue
			}
			report.Saved++
		}
		return nil
	})
	if err != nil {
		// The whole page set rolls back together.
		report.Saved = 0
		return report, fmt.Errorf("historical ingestion transaction failed for %s: %w", symbol, err)
	}

	s.log.Info("historical ingestion finished",
		logger.StringField("symbol", symbol),
		logger.StringField("result", report.Summary()),
	)
	s.notify(report)
	return report, nil
}

// buildDailyPrice normalizes one historical row. Open/high/low individually
// fall back to the close price so storage never holds a null leg.
func buildDailyPrice(stockID uint, row parser.RawRow) (*entity.DailyPrice, error) {
	closePrice := normalize.ParseDecimal(row[parser.FieldClose])
	if !closePrice.Valid {
		return nil, errMissingClose
	}
	date, err := normalize.ParseDate(row[parser.FieldDate])
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", row[parser.FieldDate], err)
	}

	return &entity.DailyPrice{
		StockID: stockID,
		Date:    date,
		Open:    orFallback(normalize.ParseDecimal(row[parser.FieldOpen]), closePrice.Decimal),
		High:    orFallback(normalize.ParseDecimal(row[parser.FieldHigh]), closePrice.Decimal),
		Low:     orFallback(normalize.ParseDecimal(row[parser.FieldLow]), closePrice.Decimal),
		Close:   closePrice.Decimal,
		Volume:  normalize.ParseInt(row[parser.FieldVolume]),
	}, nil
}

func orFallback(d decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if !d.Valid {
		return fallback
	}
	return d.Decimal
}

func (s *ingestionService) notify(report *dto.IngestionReport) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("*Market scrape finished*\nSource: %s", report.Source)
	if report.Symbol != "" {
		msg += fmt.Sprintf("\nSymbol: %s", report.Symbol)
	}
	msg += fmt.Sprintf("\nResult: %s", report.Summary())
	if err := s.notifier.SendMessage(msg); err != nil {
		s.log.Warn("failed to send telegram summary", logger.ErrorField(err))
	}
}

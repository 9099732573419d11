// Package live fetches the live-trading listing page and normalizes its rows.
package live

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"golang-market-scryper/internal/scraper/config"
	"golang-market-scryper/internal/scraper/normalize"
	"golang-market-scryper/internal/scraper/parser"
	"golang-market-scryper/pkg/logger"
)

// Quote is one normalized row from the live-trading table.
type Quote struct {
	Symbol        string
	LTP           decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Open          decimal.NullDecimal
	High          decimal.NullDecimal
	Low           decimal.NullDecimal
	Volume        int64
	PrevClose     decimal.NullDecimal
}

// Fetcher performs a single GET against the live-trading page per invocation.
// No retry, no backoff: a failed fetch yields an empty snapshot and the next
// scheduled run tries again.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	url       string
	userAgent string
	log       *logger.Logger
}

// NewFetcher builds a fetcher from the live source configuration.
// The source site serves a broken certificate chain, so TLS verification is
// configurable and off by default for it.
func NewFetcher(cfg *config.Config, log *logger.Logger) *Fetcher {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Scraper.Live.SkipTLSVerify()},
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Scraper.Live.Timeout,
			Transport: transport,
		},
		limiter:   rate.NewLimiter(rate.Every(cfg.Scraper.Live.PolitenessInterval), 1),
		url:       cfg.Scraper.Live.URL,
		userAgent: cfg.Scraper.Live.UserAgent,
		log:       log,
	}
}

// Fetch returns the current snapshot, or an empty slice on any transport or
// structural failure. Rows without both a symbol and a last-traded price are
// dropped: there is nothing to act on without them.
func (f *Fetcher) Fetch(ctx context.Context) []Quote {
	if err := f.limiter.Wait(ctx); err != nil {
		f.log.Error("rate limiter wait interrupted", logger.ErrorField(err))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		f.log.Error("failed to create live request", logger.ErrorField(err))
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Error("failed to fetch live page", logger.ErrorField(err), logger.StringField("url", f.url))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Error("live page returned non-200 status",
			logger.IntField("status", resp.StatusCode),
			logger.StringField("url", f.url),
		)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.log.Error("failed to parse live page markup", logger.ErrorField(err))
		return nil
	}

	rows := parser.Parse(doc, parser.LiveTradingColumns, f.log)
	quotes := make([]Quote, 0, len(rows))
	for _, row := range rows {
		symbol := row[parser.FieldSymbol]
		ltp := normalize.ParseDecimal(row[parser.FieldLTP])
		if symbol == "" || !ltp.Valid {
			continue
		}
		quotes = append(quotes, Quote{
			Symbol:        symbol,
			LTP:           ltp.Decimal,
			Change:        orZero(normalize.ParseDecimal(row[parser.FieldChange])),
			ChangePercent: orZero(normalize.ParseDecimal(row[parser.FieldChangePercent])),
			Open:          normalize.ParseDecimal(row[parser.FieldOpen]),
			High:          normalize.ParseDecimal(row[parser.FieldHigh]),
			Low:           normalize.ParseDecimal(row[parser.FieldLow]),
			Volume:        normalize.ParseInt(row[parser.FieldVolume]),
			PrevClose:     normalize.ParseDecimal(row[parser.FieldPrevClose]),
		})
	}

	f.log.Info("fetched live snapshot",
		logger.IntField("rows", len(rows)),
		logger.IntField("quotes", len(quotes)),
	)
	return quotes
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Package historical drives the interactive price-history site through a
// browser-automation actor: search, tab select, then a bounded paging loop.
package historical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-market-scryper/internal/scraper/browser"
	"golang-market-scryper/internal/scraper/config"
	"golang-market-scryper/internal/scraper/parser"
	"golang-market-scryper/pkg/logger"
)

// Selectors for the price-history site. The search box belongs to an ASP.NET
// autosuggest control, so injecting the symbol requires firing its input event
// and the site's own suggestion hook.
const (
	searchInputSel  = "#ctl00_AutoSuggest1_txtAutoSuggest"
	searchButtonSel = "#ctl00_lbtnSearch"
	historyTabSel   = "#navHistory"
	tableReadySel   = "table.table.table-bordered tbody tr:nth-child(2)"
	nextPageSel     = `a[title="Next Page"]`
)

const searchScript = `
const input = document.getElementById('ctl00_AutoSuggest1_txtAutoSuggest');
input.value = '%s';
input.dispatchEvent(new Event('input'));
AutoSuggest.getAutoSuggestDataByElement('Company', input);`

// state is the navigator's position in the scrape flow.
type state int

const (
	stateInit state = iota
	stateSearching
	stateAlertCheck
	stateTabSelect
	stateTableReady
	statePaging
	stateDone
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateSearching:
		return "searching"
	case stateAlertCheck:
		return "alert_check"
	case stateTabSelect:
		return "tab_select"
	case stateTableReady:
		return "table_ready"
	case statePaging:
		return "paging"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Navigator walks the price-history flow over an injected Actor.
// It does not own the actor's lifecycle; the caller acquires and releases it.
type Navigator struct {
	actor        browser.Actor
	log          *logger.Logger
	baseURL      string
	waitTimeout  time.Duration
	tableTimeout time.Duration
	alertTimeout time.Duration
	searchSettle time.Duration
	pageSettle   time.Duration
}

// New creates a navigator over the given actor.
func New(actor browser.Actor, cfg *config.Config, log *logger.Logger) *Navigator {
	h := cfg.Scraper.Historical
	return &Navigator{
		actor:        actor,
		log:          log,
		baseURL:      h.BaseURL,
		waitTimeout:  h.WaitTimeout,
		tableTimeout: h.TableTimeout,
		alertTimeout: h.AlertTimeout,
		searchSettle: h.SearchSettle,
		pageSettle:   h.PageSettle,
	}
}

// Run collects the symbol's price-history rows across up to maxPages pages.
// The loop always terminates: last page reached, maxPages exhausted, or the
// next-page control failing. A pagination failure keeps the rows already
// accumulated; only failure to reach the table at all is fatal.
func (n *Navigator) Run(ctx context.Context, symbol string, maxPages int) ([]parser.RawRow, error) {
	var rows []parser.RawRow
	pages := 0

	for st := stateInit; st != stateDone; {
		n.log.Debug("navigator state", logger.StringField("state", st.String()), logger.StringField("symbol", symbol))

		switch st {
		case stateInit:
			if err := n.actor.Navigate(ctx, n.baseURL); err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", n.baseURL, err)
			}
			st = stateSearching

		case stateSearching:
			if err := n.actor.WaitVisible(ctx, searchInputSel, n.waitTimeout); err != nil {
				return nil, fmt.Errorf("search input not found: %w", err)
			}
			if err := n.actor.Evaluate(ctx, fmt.Sprintf(searchScript, symbol)); err != nil {
				return nil, fmt.Errorf("failed to inject search term: %w", err)
			}
			// No observable signal when the autosuggest settles.
			n.settle(ctx, n.searchSettle)
			if err := n.actor.Click(ctx, searchButtonSel); err != nil {
				return nil, fmt.Errorf("failed to click search: %w", err)
			}
			st = stateAlertCheck

		case stateAlertCheck:
			if err := n.actor.DismissAlert(ctx, n.alertTimeout); err != nil {
				n.log.Warn("failed to dismiss alert", logger.ErrorField(err))
			}
			st = stateTabSelect

		case stateTabSelect:
			if err := n.actor.WaitVisible(ctx, historyTabSel, n.waitTimeout); err != nil {
				return nil, fmt.Errorf("price history tab not found: %w", err)
			}
			if err := n.actor.Click(ctx, historyTabSel); err != nil {
				return nil, fmt.Errorf("failed to open price history tab: %w", err)
			}
			st = stateTableReady

		case stateTableReady:
			if err := n.actor.WaitVisible(ctx, tableReadySel, n.tableTimeout); err != nil {
				return nil, fmt.Errorf("price history table did not load: %w", err)
			}
			n.log.Info("price history table loaded", logger.StringField("symbol", symbol))
			st = statePaging

		case statePaging:
			pages++
			pageRows, err := n.scrapePage(ctx)
			if err != nil {
				n.log.Warn("failed to parse page, stopping pagination",
					logger.IntField("page", pages), logger.ErrorField(err))
				st = stateDone
				continue
			}
			rows = append(rows, pageRows...)
			n.log.Info("scraped page",
				logger.IntField("page", pages),
				logger.IntField("records", len(pageRows)),
			)

			if pages >= maxPages {
				n.log.Info("reached max pages", logger.IntField("max_pages", maxPages))
				st = stateDone
				continue
			}
			if n.isLastPage(ctx) {
				n.log.Info("reached last page", logger.IntField("page", pages))
				st = stateDone
				continue
			}
			if !n.clickNextPage(ctx) {
				n.log.Warn("could not navigate to next page, keeping accumulated rows",
					logger.IntField("page", pages))
				st = stateDone
				continue
			}
			n.settle(ctx, n.pageSettle)
		}
	}

	return rows, nil
}

func (n *Navigator) scrapePage(ctx context.Context) ([]parser.RawRow, error) {
	markup, err := n.actor.PageSource(ctx)
	if err != nil {
		return nil, err
	}
	return parser.ParseMarkup(markup, parser.PriceHistoryColumns, n.log)
}

// isLastPage checks the next-page control's class for a disabled marker.
// An absent or unreadable control counts as last page: unknown is terminal,
// never an infinite loop.
func (n *Navigator) isLastPage(ctx context.Context) bool {
	class, ok, err := n.actor.AttrValue(ctx, nextPageSel, "class")
	if err != nil || !ok {
		return true
	}
	return strings.Contains(class, "disabled")
}

// clickNextPage runs the control's embedded navigation script.
func (n *Navigator) clickNextPage(ctx context.Context) bool {
	script, ok, err := n.actor.AttrValue(ctx, nextPageSel, "onclick")
	if err != nil || !ok || script == "" {
		return false
	}
	if err := n.actor.Evaluate(ctx, script); err != nil {
		n.log.Warn("next page script failed", logger.ErrorField(err))
		return false
	}
	return true
}

// settle waits a fixed politeness delay, cut short by context cancellation.
func (n *Navigator) settle(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

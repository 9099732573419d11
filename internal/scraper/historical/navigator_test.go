package historical

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-market-scryper/internal/scraper/config"
	"golang-market-scryper/internal/scraper/parser"
	"golang-market-scryper/pkg/logger"
)

func historyPage(dates ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="table table-bordered"><tbody>`)
	b.WriteString(`<tr><td>#</td><td>Date</td><td>Close</td><td>Change</td><td>High</td><td>Low</td><td>Open</td><td>Qty</td><td>Turnover</td></tr>`)
	for i, d := range dates {
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>512.00</td><td>2.00</td><td>515.00</td><td>508.00</td><td>510.00</td><td>1,000</td><td>512,000.00</td></tr>`, i+1, d)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

// fakeActor scripts the browser session: one markup page per index, advanced
// whenever the next-page script is evaluated.
type fakeActor struct {
	pages         []string
	nextClasses   []string
	cur           int
	closed        bool
	failTableWait bool
	noNextControl bool
	dismissed     int
	evaluated     []string
}

func (f *fakeActor) Navigate(context.Context, string) error { return nil }

func (f *fakeActor) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if f.failTableWait && selector == tableReadySel {
		return errors.New("timeout waiting for " + selector)
	}
	return nil
}

func (f *fakeActor) Click(context.Context, string) error { return nil }

func (f *fakeActor) Evaluate(_ context.Context, expression string) error {
	f.evaluated = append(f.evaluated, expression)
	if strings.Contains(expression, "__doPostBack") {
		f.cur++
	}
	return nil
}

func (f *fakeActor) AttrValue(_ context.Context, selector, attr string) (string, bool, error) {
	if selector != nextPageSel || f.noNextControl {
		return "", false, nil
	}
	switch attr {
	case "class":
		return f.nextClasses[f.cur], true, nil
	case "onclick":
		return "__doPostBack('next')", true, nil
	}
	return "", false, nil
}

func (f *fakeActor) PageSource(context.Context) (string, error) {
	return f.pages[f.cur], nil
}

func (f *fakeActor) DismissAlert(context.Context, time.Duration) error {
	f.dismissed++
	return nil
}

func (f *fakeActor) Close() error {
	f.closed = true
	return nil
}

func newTestNavigator(t *testing.T, actor *fakeActor) *Navigator {
	t.Helper()
	cfg := &config.Config{}
	cfg.Scraper.Historical.BaseURL = "https://example.test"
	cfg.Scraper.Historical.WaitTimeout = 100 * time.Millisecond
	cfg.Scraper.Historical.TableTimeout = 100 * time.Millisecond
	cfg.Scraper.Historical.AlertTimeout = 10 * time.Millisecond
	cfg.Scraper.Historical.SearchSettle = time.Millisecond
	cfg.Scraper.Historical.PageSettle = time.Millisecond

	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return New(actor, cfg, log)
}

func TestRunStopsAtDisabledNextPage(t *testing.T) {
	actor := &fakeActor{
		pages: []string{
			historyPage("2024/01/17", "2024/01/16"),
			historyPage("2024/01/15", "2024/01/14"),
			historyPage("2024/01/12"),
		},
		nextClasses: []string{"paging-next", "paging-next", "paging-next disabled"},
	}

	rows, err := newTestNavigator(t, actor).Run(context.Background(), "NABIL", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, 2, actor.cur, "should have paged forward exactly twice")
	assert.Equal(t, 1, actor.dismissed)
	assert.Equal(t, "2024/01/12", rows[4][parser.FieldDate])
}

func TestRunHonorsMaxPages(t *testing.T) {
	actor := &fakeActor{
		pages: []string{
			historyPage("2024/01/17"),
			historyPage("2024/01/16"),
			historyPage("2024/01/15"),
		},
		nextClasses: []string{"paging-next", "paging-next", "paging-next"},
	}

	rows, err := newTestNavigator(t, actor).Run(context.Background(), "NABIL", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, actor.cur)
}

func TestRunMissingNextControlIsTerminal(t *testing.T) {
	actor := &fakeActor{
		pages:         []string{historyPage("2024/01/17", "2024/01/16")},
		nextClasses:   []string{"paging-next"},
		noNextControl: true,
	}

	rows, err := newTestNavigator(t, actor).Run(context.Background(), "NABIL", 10)
	require.NoError(t, err)
	// The accumulated page is kept even though pagination could not continue.
	assert.Len(t, rows, 2)
}

func TestRunTableTimeoutIsFatal(t *testing.T) {
	actor := &fakeActor{failTableWait: true}

	rows, err := newTestNavigator(t, actor).Run(context.Background(), "NABIL", 10)
	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestRunInjectsSymbolSearch(t *testing.T) {
	actor := &fakeActor{
		pages:       []string{historyPage("2024/01/17")},
		nextClasses: []string{"paging-next disabled"},
	}

	_, err := newTestNavigator(t, actor).Run(context.Background(), "NABIL", 10)
	require.NoError(t, err)
	require.NotEmpty(t, actor.evaluated)
	assert.Contains(t, actor.evaluated[0], "NABIL")
	assert.Contains(t, actor.evaluated[0], "AutoSuggest")
}

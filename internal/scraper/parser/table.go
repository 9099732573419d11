// Package parser extracts row records from scraped markup tables.
// Parsing is pure: the same markup always yields the same rows.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"golang-market-scryper/pkg/logger"
)

// Field names a logical column in a source table.
type Field string

const (
	FieldSymbol        Field = "symbol"
	FieldDate          Field = "date"
	FieldLTP           Field = "ltp"
	FieldClose         Field = "close"
	FieldChange        Field = "change"
	FieldChangePercent Field = "change_percent"
	FieldOpen          Field = "open"
	FieldHigh          Field = "high"
	FieldLow           Field = "low"
	FieldVolume        Field = "volume"
	FieldPrevClose     Field = "prev_close"
	FieldTurnover      Field = "turnover"
)

// RawRow is one table row's cells keyed by logical field, values still raw text.
type RawRow map[Field]string

// ColumnMap is a named, versioned index-to-field mapping for one source table.
// A layout change on the source is fixed by bumping a single map, not by
// hunting scattered indices.
type ColumnMap struct {
	Name             string
	Version          int
	PrimarySelector  string
	FallbackSelector string
	// SkipFirstRow drops the first body row (sources that repeat the header inside tbody).
	SkipFirstRow bool
	// MinCells is the minimum cell count for a row to be considered data.
	MinCells int
	Columns  map[Field]int
}

// LiveTradingColumns maps the live-trading page's 10-column layout.
var LiveTradingColumns = ColumnMap{
	Name:             "sharesansar-live-trading",
	Version:          1,
	PrimarySelector:  "table#headFixed",
	FallbackSelector: "table.table",
	MinCells:         10,
	Columns: map[Field]int{
		FieldSymbol:        1,
		FieldLTP:           2,
		FieldChange:        3,
		FieldChangePercent: 4,
		FieldOpen:          5,
		FieldHigh:          6,
		FieldLow:           7,
		FieldVolume:        8,
		FieldPrevClose:     9,
	},
}

// PriceHistoryColumns maps the price-history table's 9-column layout.
// The first body row repeats the header and is skipped.
var PriceHistoryColumns = ColumnMap{
	Name:             "merolagani-price-history",
	Version:          1,
	PrimarySelector:  "table.table.table-bordered",
	FallbackSelector: "table.table",
	SkipFirstRow:     true,
	MinCells:         9,
	Columns: map[Field]int{
		FieldDate:     1,
		FieldClose:    2,
		FieldChange:   3,
		FieldHigh:     4,
		FieldLow:      5,
		FieldOpen:     6,
		FieldVolume:   7,
		FieldTurnover: 8,
	},
}

// Parse extracts the rows of the table selected by cm from the document.
// Rows below the minimum cell count are dropped silently (ad/separator rows);
// rows whose mapped cells cannot be read are dropped with a warning.
// A missing table yields no rows, never an error.
func Parse(doc *goquery.Document, cm ColumnMap, log *logger.Logger) []RawRow {
	table := findTable(doc, cm)
	if table == nil {
		log.Warn("data table not found",
			logger.StringField("column_map", cm.Name),
			logger.StringField("selector", cm.PrimarySelector),
		)
		return nil
	}

	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		log.Warn("table body not found", logger.StringField("column_map", cm.Name))
		return nil
	}

	var rows []RawRow
	tbody.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if cm.SkipFirstRow && i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < cm.MinCells {
			return
		}
		row := make(RawRow, len(cm.Columns))
		for field, idx := range cm.Columns {
			if idx >= cells.Length() {
				log.Warn("dropping row with unreadable cell",
					logger.StringField("column_map", cm.Name),
					logger.StringField("field", string(field)),
					logger.IntField("row", i),
				)
				return
			}
			row[field] = strings.TrimSpace(cells.Eq(idx).Text())
		}
		rows = append(rows, row)
	})
	return rows
}

// ParseMarkup parses the markup string and extracts rows via Parse.
func ParseMarkup(markup string, cm ColumnMap, log *logger.Logger) ([]RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return Parse(doc, cm, log), nil
}

// findTable resolves the data table: primary selector first, then the fallback,
// and among candidates the last one that actually contains a body section.
// Sources embed nested preview tables before the real data table.
func findTable(doc *goquery.Document, cm ColumnMap) *goquery.Selection {
	candidates := doc.Find(cm.PrimarySelector)
	if candidates.Length() == 0 {
		candidates = doc.Find(cm.FallbackSelector)
	}
	var picked *goquery.Selection
	candidates.Each(func(_ int, s *goquery.Selection) {
		if s.Find("tbody").Length() > 0 {
			picked = s
		}
	})
	return picked
}

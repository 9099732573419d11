// Package normalize converts raw scraped text cells into typed values.
// Every function is total: unparsable input degrades to null or zero,
// never to an error the caller has to handle per cell.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the historical source's date format (Y/M/D).
const DateLayout = "2006/01/02"

// clean strips whitespace and thousands separators.
func clean(text string) string {
	cleaned := strings.ReplaceAll(text, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return strings.TrimSpace(cleaned)
}

// isSentinel reports whether the text is a "no data" placeholder.
func isSentinel(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "-", "n/a", "na":
		return true
	}
	return false
}

// ParseDecimal converts a text cell into a nullable decimal.
// Sentinel values and non-numeric residue both normalize to null.
func ParseDecimal(text string) decimal.NullDecimal {
	if isSentinel(text) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(clean(text))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseInt converts a text cell into an integer, defaulting to 0.
// A fractional component is tolerated and floored, since the sources
// emit counts like "3,683.00".
func ParseInt(text string) int64 {
	if isSentinel(text) {
		return 0
	}
	f, err := strconv.ParseFloat(clean(text), 64)
	if err != nil {
		return 0
	}
	return int64(math.Floor(f))
}

// ParseDate parses a trading date in the historical source's Y/M/D format.
func ParseDate(text string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(text))
}

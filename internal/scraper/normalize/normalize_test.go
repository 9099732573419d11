package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalSentinels(t *testing.T) {
	for _, text := range []string{"", "-", "n/a", "N/A", "na", "NA", "  ", " - "} {
		assert.False(t, ParseDecimal(text).Valid, "expected null for %q", text)
	}
}

func TestParseDecimal(t *testing.T) {
	d := ParseDecimal("1,234.50")
	require.True(t, d.Valid)
	assert.True(t, d.Decimal.Equal(decimal.NewFromFloat(1234.50)))

	d = ParseDecimal("  452.00 ")
	require.True(t, d.Valid)
	assert.True(t, d.Decimal.Equal(ParseDecimal("452").Decimal))
}

func TestParseDecimalGarbage(t *testing.T) {
	assert.False(t, ParseDecimal("abc").Valid)
	assert.False(t, ParseDecimal("12.3.4").Valid)
}

func TestParseIntSentinels(t *testing.T) {
	for _, text := range []string{"", "-", "n/a", "N/A", "na"} {
		assert.Equal(t, int64(0), ParseInt(text), "expected 0 for %q", text)
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, int64(3683), ParseInt("3,683.00"))
	assert.Equal(t, int64(100), ParseInt("100"))
	assert.Equal(t, int64(7), ParseInt("7.99"))
	assert.Equal(t, int64(0), ParseInt("volume"))
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024/01/15")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, 15, date.Day())

	_, err = ParseDate("15-01-2024")
	assert.Error(t, err)
}

package tools

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with two fixed decimals, e.g. "$1234.50".
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// FormatVolume groups thousands, e.g. "1,234,567".
func FormatVolume(v int64) string {
	return humanize.Comma(v)
}

package services

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RoundCurrency rounds v to cents, half away from zero. It is only applied
// at presentation boundaries, never between pipeline stages.
func RoundCurrency(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatCurrency formats an amount with thousands separators and exactly two
// decimal places, e.g. $1,234.50 or -$10.00.
func FormatCurrency(amount float64) string {
	rounded := RoundCurrency(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", rounded)
}

// FormatPercent formats a rate such as 0.085 as "8.5%".
func FormatPercent(rate float64) string {
	pct := decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).Round(2)
	return pct.String() + "%"
}

// FormatQty returns whole quantities without decimals and fractional ones
// with two decimal places.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return humanize.FormatFloat("#,###.", qty)
	}
	return humanize.FormatFloat("#,###.##", qty)
}

package services

import (
	"math"
	"strings"
)

// AmountToWords spells out an amount in US English for printed estimates.
// Example: 1234.5 → "One Thousand Two Hundred Thirty-Four Dollars and Fifty Cents"
func AmountToWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	if amount < 0 {
		return "Negative " + AmountToWords(-amount)
	}

	cents := int64(math.Round(RoundCurrency(amount) * 100))
	dollars := cents / 100
	cents %= 100

	var b strings.Builder
	if dollars == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(convertToWords(dollars))
	}
	if dollars == 1 {
		b.WriteString(" Dollar")
	} else {
		b.WriteString(" Dollars")
	}
	if cents > 0 {
		b.WriteString(" and ")
		b.WriteString(convertUnder100(cents))
		if cents == 1 {
			b.WriteString(" Cent")
		} else {
			b.WriteString(" Cents")
		}
	}
	return b.String()
}

var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
}

func convertToWords(n int64) string {
	var parts []string
	for _, s := range scales {
		if n >= s.value {
			parts = append(parts, convertUnder1000(n/s.value)+" "+s.name)
			n %= s.value
		}
	}
	if n > 0 {
		parts = append(parts, convertUnder1000(n))
	}
	return strings.Join(parts, " ")
}

func convertUnder1000(n int64) string {
	if n < 100 {
		return convertUnder100(n)
	}
	out := ones[n/100] + " Hundred"
	if n%100 != 0 {
		out += " " + convertUnder100(n%100)
	}
	return out
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += "-" + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

package services

import "testing"

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Dollars"},
		{1, "One Dollar"},
		{0.01, "Zero Dollars and One Cent"},
		{21, "Twenty-One Dollars"},
		{100, "One Hundred Dollars"},
		{1234.5, "One Thousand Two Hundred Thirty-Four Dollars and Fifty Cents"},
		{639.6, "Six Hundred Thirty-Nine Dollars and Sixty Cents"},
		{2_000_015, "Two Million Fifteen Dollars"},
		{-10, "Negative Ten Dollars"},
	}
	for _, tt := range tests {
		t.Run(FormatCurrency(tt.amount), func(t *testing.T) {
			if got := AmountToWords(tt.amount); got != tt.want {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

package services

import "testing"

func TestFormatCurrency_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small integer", 5, "$5.00"},
		{"with decimals", 42.5, "$42.50"},
		{"hundreds", 999.99, "$999.99"},
		{"thousands", 1234.56, "$1,234.56"},
		{"millions", 1234567.891, "$1,234,567.89"},
		{"negative", -10, "-$10.00"},
		{"rounds half away from zero", 1.005, "$1.01"},
		{"scenario C total", 639.6, "$639.60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(tt.input)
			if got != tt.expect {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect float64
	}{
		{"already rounded", 41.6, 41.6},
		{"binary artifact", 0.1 + 0.2, 0.3},
		{"half up", 2.675, 2.68},
		{"negative half", -2.675, -2.68},
		{"sub cent", 0.004, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCurrency(tt.input)
			if got != tt.expect {
				t.Errorf("RoundCurrency(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.085); got != "8.5%" {
		t.Errorf("FormatPercent(0.085) = %q, want 8.5%%", got)
	}
	if got := FormatPercent(0.15); got != "15%" {
		t.Errorf("FormatPercent(0.15) = %q, want 15%%", got)
	}
}

func TestFormatQty(t *testing.T) {
	if got := FormatQty(100); got != "100" {
		t.Errorf("FormatQty(100) = %q, want 100", got)
	}
	if got := FormatQty(12.5); got != "12.50" {
		t.Errorf("FormatQty(12.5) = %q, want 12.50", got)
	}
}

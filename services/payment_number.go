package services

import (
	"fmt"
	"strings"
	"time"
)

// formatPaymentNumber constructs a payment id from its components.
func formatPaymentNumber(year, sequence int) string {
	return fmt.Sprintf("PAY-%d-%03d", year, sequence)
}

// NextPaymentNumber returns the next payment id for a schedule.
// Format: PAY-{year}-{sequence}
//   - year: calendar year of now
//   - sequence: 3-digit zero-padded, per project per year
//
// Existing ids that do not follow the format are ignored.
func NextPaymentNumber(existing []Payment, now time.Time) string {
	prefix := fmt.Sprintf("PAY-%d-", now.Year())
	highest := 0
	for _, p := range existing {
		rest, ok := strings.CutPrefix(p.ID, prefix)
		if !ok {
			continue
		}
		var seq int
		if _, err := fmt.Sscanf(rest, "%d", &seq); err == nil && seq > highest {
			highest = seq
		}
	}
	return formatPaymentNumber(now.Year(), highest+1)
}

package services

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Deposit sources reported in PaymentSummary.DepositSource.
const (
	DepositFromPayments = "payments"
	DepositFromLegacy   = "legacy"
	DepositNone         = "none"
)

// PaymentSummary is the reconciled state of a project's payments.
type PaymentSummary struct {
	TotalProjectValue float64       `json:"totalProjectValue"`
	Deposit           float64       `json:"deposit"`
	DepositSource     string        `json:"depositSource"`
	TotalPaid         float64       `json:"totalPaid"`
	RemainingBalance  float64       `json:"remainingBalance"`
	IsFullyPaid       bool          `json:"isFullyPaid"`
	PaidPayments      []LedgerEntry `json:"paidPayments"`
	PendingPayments   []LedgerEntry `json:"pendingPayments"`
	// OverduePayments are the pending entries dated on a day before today
	// (UTC). An entry due today is not overdue until the next day.
	OverduePayments   []LedgerEntry `json:"overduePayments"`
	Errors            []CalcError   `json:"errors,omitempty"`
}

// CreditBalance is the amount collected beyond the project value. It is a
// presentation figure and is not part of the ledger state.
func (p PaymentSummary) CreditBalance() float64 {
	return math.Max(0, p.TotalPaid-p.TotalProjectValue)
}

// ReconcilePayments computes what has been collected against
// totalProjectValue.
//
// A deposit is counted exactly once: when any payment entry is tagged as a
// deposit, those entries are authoritative and the legacy flat deposit
// setting is ignored.
func (e *Engine) ReconcilePayments(totalProjectValue float64, s NormalizedSettings, now time.Time) PaymentSummary {
	out := PaymentSummary{
		TotalProjectValue: totalProjectValue,
		DepositSource:     DepositNone,
		PaidPayments:      []LedgerEntry{},
		PendingPayments:   []LedgerEntry{},
		OverduePayments:   []LedgerEntry{},
	}
	if math.IsNaN(totalProjectValue) || math.IsInf(totalProjectValue, 0) {
		out.Errors = append(out.Errors, newCalcError(CategoryCalculation, SeverityError, CodeNaNCoerced,
			"totalProjectValue", "total project value is not finite and was treated as 0", nil))
		out.TotalProjectValue = 0
	}

	amountBounds := e.validator.bounds(EntityPayment, "amount")
	hasDepositEntry := false
	var deposit, otherPaid float64

	for i, p := range s.Payments {
		if p.IsDeposit {
			hasDepositEntry = true
		}
		if !p.Valid {
			continue
		}
		if errs := CheckRange("amount", p.Amount, amountBounds); len(errs) > 0 {
			out.Errors = append(out.Errors, withPath(fmt.Sprintf("settings.payments[%d]", i), errs)...)
			continue
		}
		if !p.IsPaid {
			out.PendingPayments = append(out.PendingPayments, p)
			continue
		}
		out.PaidPayments = append(out.PaidPayments, p)
		if p.IsDeposit {
			deposit += p.Amount
		} else {
			otherPaid += p.Amount
		}
	}

	switch {
	case hasDepositEntry:
		out.DepositSource = DepositFromPayments
		if s.LegacyDeposit > 0 {
			out.Errors = append(out.Errors, migrationNotice(CodeLegacyDeposit, "settings.deposit",
				"legacy deposit field ignored because a deposit payment entry exists",
				map[string]any{"legacyDeposit": s.LegacyDeposit}))
		}
	case s.LegacyDeposit != 0:
		b := e.validator.bounds(EntitySettings, "deposit")
		if errs := CheckRange("deposit", s.LegacyDeposit, b); len(errs) > 0 {
			out.Errors = append(out.Errors, withPath("settings", errs)...)
		} else {
			deposit = s.LegacyDeposit
			out.DepositSource = DepositFromLegacy
		}
	}

	out.Deposit = deposit
	out.TotalPaid = deposit + otherPaid
	out.RemainingBalance = math.Max(0, out.TotalProjectValue-out.TotalPaid)
	out.IsFullyPaid = out.RemainingBalance <= e.cfg.PaidTolerance
	out.OverduePayments, out.Errors = overdueEntries(out.PendingPayments, now, out.Errors)
	return out
}

// overdueEntries returns the pending entries whose due date is strictly
// before the day of now. Entries without a parseable date are never overdue.
func overdueEntries(pending []LedgerEntry, now time.Time, errs []CalcError) ([]LedgerEntry, []CalcError) {
	overdue := []LedgerEntry{}
	today := startOfDay(now)
	for _, p := range pending {
		if strings.TrimSpace(p.Date) == "" {
			continue
		}
		due, err := ParseDate(p.Date)
		if err != nil {
			errs = append(errs, validationWarning(CodeInvalidDate, "date",
				"payment date is not a valid date", map[string]any{"value": p.Date, "id": p.ID}))
			continue
		}
		if startOfDay(due).Before(today) {
			overdue = append(overdue, p)
		}
	}
	return overdue, errs
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package services

import (
	"testing"
	"time"
)

func TestReconcilePayments_DepositCountedOnce(t *testing.T) {
	p := paintProject()
	p.Settings = &Settings{
		Deposit: Num(100),
		Payments: []Payment{
			{ID: "dep", Type: "Deposit", Amount: Num(100), IsPaid: boolPtr(true)},
		},
	}

	got := testEngine().ComputePayments(p)

	if !floatClose(got.TotalPaid, 100) {
		t.Errorf("TotalPaid = %v, want 100", got.TotalPaid)
	}
	if !floatClose(got.Deposit, 100) {
		t.Errorf("Deposit = %v, want 100", got.Deposit)
	}
	if got.DepositSource != DepositFromPayments {
		t.Errorf("DepositSource = %q, want %q", got.DepositSource, DepositFromPayments)
	}
	if !hasCode(got.Errors, CodeLegacyDeposit) {
		t.Errorf("expected LEGACY_DEPOSIT_IGNORED notice, got %v", got.Errors)
	}
	if !floatClose(got.RemainingBalance, 400) {
		t.Errorf("RemainingBalance = %v, want 400", got.RemainingBalance)
	}
}

func TestReconcilePayments_Sources(t *testing.T) {
	tests := []struct {
		name        string
		settings    NormalizedSettings
		wantDeposit float64
		wantPaid    float64
		wantSource  string
	}{
		{
			name:       "nothing collected",
			wantSource: DepositNone,
		},
		{
			name:        "legacy deposit only",
			settings:    NormalizedSettings{LegacyDeposit: 150},
			wantDeposit: 150,
			wantPaid:    150,
			wantSource:  DepositFromLegacy,
		},
		{
			name: "legacy deposit plus regular payment",
			settings: NormalizedSettings{
				LegacyDeposit: 150,
				Payments:      []LedgerEntry{{Amount: 200, IsPaid: true, Valid: true}},
			},
			wantDeposit: 150,
			wantPaid:    350,
			wantSource:  DepositFromLegacy,
		},
		{
			name: "unpaid deposit entry still supersedes legacy",
			settings: NormalizedSettings{
				LegacyDeposit: 150,
				Payments:      []LedgerEntry{{Amount: 150, IsDeposit: true, Valid: true}},
			},
			wantSource: DepositFromPayments,
		},
		{
			name:       "negative legacy deposit rejected",
			settings:   NormalizedSettings{LegacyDeposit: -10},
			wantSource: DepositNone,
		},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ReconcilePayments(1000, tt.settings, fixedNow)
			if !floatClose(got.Deposit, tt.wantDeposit) {
				t.Errorf("Deposit = %v, want %v", got.Deposit, tt.wantDeposit)
			}
			if !floatClose(got.TotalPaid, tt.wantPaid) {
				t.Errorf("TotalPaid = %v, want %v", got.TotalPaid, tt.wantPaid)
			}
			if got.DepositSource != tt.wantSource {
				t.Errorf("DepositSource = %q, want %q", got.DepositSource, tt.wantSource)
			}
		})
	}
}

func TestReconcilePayments_FullyPaidTolerance(t *testing.T) {
	tests := []struct {
		name      string
		paid      float64
		wantFully bool
	}{
		{"half a cent left", 999.995, true},
		{"exactly paid", 1000, true},
		{"overpaid", 1200, true},
		{"two cents left", 999.98, false},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ReconcilePayments(1000, NormalizedSettings{
				Payments: []LedgerEntry{{Amount: tt.paid, IsPaid: true, Valid: true}},
			}, fixedNow)
			if got.IsFullyPaid != tt.wantFully {
				t.Errorf("IsFullyPaid = %v, want %v (remaining %v)", got.IsFullyPaid, tt.wantFully, got.RemainingBalance)
			}
			if got.RemainingBalance < 0 {
				t.Errorf("RemainingBalance = %v, must never be negative", got.RemainingBalance)
			}
		})
	}
}

func TestReconcilePayments_ConfigurableTolerance(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PaidTolerance = 1
	e := NewEngine(cfg)

	got := e.ReconcilePayments(1000, NormalizedSettings{
		Payments: []LedgerEntry{{Amount: 999.5, IsPaid: true, Valid: true}},
	}, fixedNow)

	if !got.IsFullyPaid {
		t.Errorf("IsFullyPaid = false with remaining %v under tolerance 1", got.RemainingBalance)
	}
}

func TestReconcilePayments_CreditBalance(t *testing.T) {
	got := testEngine().ReconcilePayments(500, NormalizedSettings{
		Payments: []LedgerEntry{{Amount: 600, IsPaid: true, Valid: true}},
	}, fixedNow)

	if got.RemainingBalance != 0 {
		t.Errorf("RemainingBalance = %v, want 0", got.RemainingBalance)
	}
	if !floatClose(got.CreditBalance(), 100) {
		t.Errorf("CreditBalance() = %v, want 100", got.CreditBalance())
	}
}

func TestReconcilePayments_Overdue(t *testing.T) {
	settings := NormalizedSettings{Payments: []LedgerEntry{
		{ID: "past", Amount: 100, Date: "2025-06-01", Valid: true},
		{ID: "today", Amount: 100, Date: "2025-06-15", Valid: true},
		{ID: "future", Amount: 100, Date: "2025-07-01", Valid: true},
		{ID: "undated", Amount: 100, Valid: true},
		{ID: "garbled", Amount: 100, Date: "next tuesday", Valid: true},
		{ID: "paid-past", Amount: 100, Date: "2025-01-01", IsPaid: true, Valid: true},
	}}

	got := testEngine().ReconcilePayments(1000, settings, fixedNow)

	if len(got.PendingPayments) != 5 {
		t.Errorf("expected 5 pending, got %d", len(got.PendingPayments))
	}
	if len(got.OverduePayments) != 1 || got.OverduePayments[0].ID != "past" {
		t.Errorf("OverduePayments = %+v, want only %q", got.OverduePayments, "past")
	}
	if len(got.PaidPayments) != 1 {
		t.Errorf("expected 1 paid, got %d", len(got.PaidPayments))
	}
	if !hasCode(got.Errors, CodeInvalidDate) {
		t.Errorf("expected INVALID_DATE for the garbled date, got %v", got.Errors)
	}
}

func TestReconcilePayments_OverdueFromNextDay(t *testing.T) {
	settings := NormalizedSettings{Payments: []LedgerEntry{
		{ID: "due", Amount: 100, Date: "2025-06-15", Valid: true},
	}}

	tests := []struct {
		name    string
		now     time.Time
		overdue int
	}{
		{"late on the due date", time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC), 0},
		{"start of the next day", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testEngine().ReconcilePayments(1000, settings, tt.now)
			if len(got.OverduePayments) != tt.overdue {
				t.Errorf("overdue = %d, want %d", len(got.OverduePayments), tt.overdue)
			}
		})
	}
}

func TestReconcilePayments_InvalidEntriesIgnored(t *testing.T) {
	got := testEngine().ReconcilePayments(1000, NormalizedSettings{Payments: []LedgerEntry{
		{ID: "bad", Amount: 0, IsPaid: true, Valid: false},
		{ID: "negative", Amount: -50, IsPaid: true, Valid: true},
		{ID: "ok", Amount: 250, IsPaid: true, Valid: true},
	}}, fixedNow)

	if !floatClose(got.TotalPaid, 250) {
		t.Errorf("TotalPaid = %v, want 250", got.TotalPaid)
	}
	if len(got.PaidPayments) != 1 || got.PaidPayments[0].ID != "ok" {
		t.Errorf("PaidPayments = %+v", got.PaidPayments)
	}
	if !hasCode(got.Errors, CodeBelowMin) {
		t.Errorf("expected BELOW_MIN for the negative amount, got %v", got.Errors)
	}
}

func TestPayment_Paid(t *testing.T) {
	tests := []struct {
		name string
		p    Payment
		want bool
	}{
		{"deposit without flag", Payment{Type: "Deposit"}, true},
		{"deposit method without flag", Payment{Method: "deposit"}, true},
		{"deposit marked unpaid", Payment{Type: "deposit", IsPaid: boolPtr(false)}, false},
		{"installment without flag", Payment{Type: "Progress"}, false},
		{"installment marked paid", Payment{Type: "Progress", IsPaid: boolPtr(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Paid(); got != tt.want {
				t.Errorf("Paid() = %v, want %v", got, tt.want)
			}
		})
	}
}

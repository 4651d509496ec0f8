package services

import (
	"fmt"
	"time"
)

// UpgradeLegacyShape rewrites the stored legacy layouts of p into the
// current ones:
//   - a work item with flat measurement fields and no surfaces gets one
//     surface carrying those fields
//   - a legacy flat deposit with no deposit-tagged payment becomes a paid
//     Deposit entry; the flat field is left in place for old readers
//
// The computed figures of the result equal those of p. changed is false
// when p was already current. p is not modified.
func UpgradeLegacyShape(p Project, now time.Time) (out Project, notices []CalcError, changed bool) {
	out = p
	out.Categories = make([]Category, len(p.Categories))
	for ci, c := range p.Categories {
		items := make([]WorkItem, len(c.WorkItems))
		for wi, w := range c.WorkItems {
			if len(w.Surfaces) == 0 && w.hasLegacyMeasurement() {
				w.Surfaces = []Surface{{
					Name:     w.Name,
					Sqft:     w.Sqft,
					Width:    w.Width,
					Height:   w.Height,
					LinearFt: w.LinearFt,
					Units:    w.Units,
				}}
				w.Sqft, w.Width, w.Height, w.LinearFt, w.Units = Number{}, Number{}, Number{}, Number{}, Number{}
				notices = append(notices, migrationNotice(CodeLegacyShape, "",
					"flat measurement fields moved into a surface",
					map[string]any{"path": fmt.Sprintf("%s.workItems[%d]", categoryPath(ci), wi)}))
				changed = true
			} else {
				w.Surfaces = append([]Surface(nil), w.Surfaces...)
			}
			items[wi] = w
		}
		c.WorkItems = items
		out.Categories[ci] = c
	}
	if p.Categories == nil {
		out.Categories = nil
	}

	if p.Settings != nil {
		s := *p.Settings
		s.Payments = append([]Payment(nil), p.Settings.Payments...)
		if deposit, errs := s.Deposit.resolve("deposit"); len(errs) == 0 && deposit > 0 && !hasDepositEntry(s.Payments) {
			paid := true
			s.Payments = append(s.Payments, Payment{
				ID:     NextPaymentNumber(s.Payments, now),
				Amount: Num(deposit),
				Type:   "Deposit",
				IsPaid: &paid,
				Note:   "Migrated from legacy deposit",
			})
			notices = append(notices, migrationNotice(CodeLegacyDeposit, "settings.deposit",
				"legacy deposit recorded as a Deposit payment entry",
				map[string]any{"legacyDeposit": deposit}))
			changed = true
		}
		out.Settings = &s
	}
	return out, notices, changed
}

func hasDepositEntry(payments []Payment) bool {
	for _, p := range payments {
		if p.IsDeposit() {
			return true
		}
	}
	return false
}

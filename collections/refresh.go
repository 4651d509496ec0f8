package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"estimator/services"
)

// RefreshSnapshots recomputes totals, payment_details and fingerprint for
// every project whose stored fingerprint no longer matches its content or
// the engine limits in effect.
// It returns the number of records rewritten.
func RefreshSnapshots(app *pocketbase.PocketBase, calc *services.Calculator) (int, error) {
	records, projects, bad, err := LoadProjects(app)
	if err != nil {
		return 0, fmt.Errorf("refresh: %w", err)
	}
	for _, err := range bad {
		log.Printf("refresh: skipping undecodable project: %v", err)
	}

	refreshed := 0
	for i, rec := range records {
		p := projects[i]
		fp := calc.Engine().Fingerprint(p)
		if rec.GetString("fingerprint") == fp &&
			p.Totals != nil && p.Totals.Fingerprint == fp &&
			p.PaymentDetails != nil && p.PaymentDetails.Fingerprint == fp {
			continue
		}

		SetSnapshots(rec, p, calc.Engine())
		if err := app.Save(rec); err != nil {
			log.Printf("refresh: failed to save project %s: %v\n", rec.Id, err)
			continue
		}
		calc.Invalidate(p)
		refreshed++
	}
	return refreshed, nil
}

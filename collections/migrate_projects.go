package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"

	"estimator/services"
)

// MigrateLegacyProjects rewrites projects stored in legacy layouts (flat
// work item measurements, flat deposit) into the current ones. Figures are
// unchanged; snapshots go stale and are picked up by RefreshSnapshots.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateLegacyProjects(app *pocketbase.PocketBase) (int, error) {
	records, projects, bad, err := LoadProjects(app)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	for _, err := range bad {
		log.Printf("migrate: skipping undecodable project: %v", err)
	}

	now := time.Now()
	migrated := 0
	for i, rec := range records {
		upgraded, notices, changed := services.UpgradeLegacyShape(projects[i], now)
		if !changed {
			continue
		}

		SetProjectData(rec, upgraded)
		if err := app.Save(rec); err != nil {
			log.Printf("migrate: failed to save project %s: %v\n", rec.Id, err)
			continue
		}
		migrated++
		log.Printf("migrate: project %q (%s) upgraded, %d change(s)\n", rec.GetString("name"), rec.Id, len(notices))
	}

	if migrated > 0 {
		log.Printf("migrate: %d legacy project(s) upgraded.\n", migrated)
	}
	return migrated, nil
}

package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// ProjectsCollection holds one record per estimate.
const ProjectsCollection = "projects"

// Setup programmatically creates/ensures the projects collection exists.
//
// The calculation input (customerInfo, categories, settings) lives in the
// data JSON field. totals and payment_details hold the last computed
// snapshots; fingerprint is the content hash they were taken from.
// client_name and start_date mirror customerInfo for listing and filtering.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, ProjectsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    services.ProjectStatusOptions,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "start_date", Required: false})
		c.Fields.Add(&core.JSONField{Name: "data", MaxSize: 2 << 20})
		c.Fields.Add(&core.JSONField{Name: "totals", MaxSize: 2 << 20})
		c.Fields.Add(&core.JSONField{Name: "payment_details", MaxSize: 2 << 20})
		c.Fields.Add(&core.TextField{Name: "fingerprint", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

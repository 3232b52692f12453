package models

import (
	"log"

	"github.com/opsfloor/mfgops_backend/config"
)

// MigrateTable migrates the master collection tables.
// Local entities (job cards, inventory, handovers, rejections) are not
// listed here: they live in the embedded local store, not MySQL.
func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&Company{},
		&Customer{},
		&CustomerBranch{},
		&Inquiry{},
		&Quotation{},
		&QuotationItem{},
		&Purchase{},
	)
	if err != nil {
		log.Printf("auto migration failed: %v", err)
	}
}

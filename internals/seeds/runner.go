package seeds

import (
	"log"

	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	"obra360_backend/internals/seeds/persons"
	"obra360_backend/internals/seeds/users"
)

// RunAllSeeds is idempotent; it runs on every start.
func RunAllSeeds(db *gorm.DB) {
	if err := users.SeedAdminFromEnv(db); err != nil {
		log.Printf("[ERROR] admin seed: %v", err)
	}

	if path := configs.GetEnv("SEED_PERSONS_FILE"); path != "" {
		if err := persons.SeedPersonsFromJSON(db, path); err != nil {
			log.Printf("[ERROR] persons seed: %v", err)
		}
	}
}

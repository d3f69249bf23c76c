package persons

import (
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"obra360_backend/internals/features/attendance/persons/model"
)

type PersonSeed struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
	IsActive  *bool  `json:"is_active"`
}

// SeedPersonsFromJSON inserts persons from a JSON array; rows whose DNI
// already exists are skipped.
func SeedPersonsFromJSON(db *gorm.DB, filePath string) error {
	log.Println("[INFO] reading persons seed:", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []PersonSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return err
	}

	inserted := 0
	for _, in := range inputs {
		p := model.PersonModel{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			DNI:       strings.TrimSpace(in.DNI),
			IsActive:  in.IsActive == nil || *in.IsActive,
		}
		if p.DNI == "" {
			log.Printf("[WARN] person seed without dni skipped: %s %s", p.FirstName, p.LastName)
			continue
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "person_dni"}},
			DoNothing: true,
		}).Create(&p)
		if res.Error != nil {
			log.Printf("[ERROR] person seed '%s': %v", p.DNI, res.Error)
			continue
		}
		inserted += int(res.RowsAffected)
	}
	log.Printf("[INFO] persons seed: %d inserted, %d in file", inserted, len(inputs))
	return nil
}

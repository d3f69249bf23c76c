package policy

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	personRepo "obra360_backend/internals/features/attendance/persons/repository"
	helper "obra360_backend/internals/helpers"
)

// FromRequest builds the Caller from the auth middleware locals and the
// persons table.
func FromRequest(c *fiber.Ctx, db *gorm.DB) (Caller, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return Caller{}, err
	}
	caller := Caller{
		UserID: userID,
		Role:   helper.GetRoleFromToken(c),
	}

	person, err := personRepo.NewPersonRepository(db).FindByUserID(c.UserContext(), userID)
	if err != nil {
		return Caller{}, err
	}
	if person != nil {
		id := person.ID
		caller.PersonID = &id
	}
	return caller, nil
}

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	"obra360_backend/internals/features/attendance/persons/dto"
	"obra360_backend/internals/features/attendance/persons/repository"
	"obra360_backend/internals/features/attendance/policy"
	helper "obra360_backend/internals/helpers"
	"obra360_backend/internals/helpers/apperror"
)

var validatePerson = validator.New()

type PersonController struct {
	DB   *gorm.DB
	Repo *repository.PersonRepository
}

func NewPersonController(db *gorm.DB) *PersonController {
	return &PersonController{DB: db, Repo: repository.NewPersonRepository(db)}
}

// =======================
// GET /api/persons?all=true&page=&per_page=
// =======================
func (ctrl *PersonController) List(c *fiber.Ctx) error {
	caller, err := policy.FromRequest(c, ctrl.DB)
	if err != nil {
		return helper.JsonAppError(c, err, configs.IsDevelopment())
	}

	p := helper.ParsePagination(c, helper.DefaultOpts)
	persons, total, err := ctrl.Repo.List(c.UserContext(), repository.ListFilter{
		IncludeInactive: strings.EqualFold(c.Query("all"), "true"),
		OnlyID:          caller.EffectivePersonFilter(nil),
		Limit:           p.PerPage,
		Offset:          p.Offset(),
	})
	if err != nil {
		log.Println("[ERROR] list persons:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve persons")
	}

	return helper.JsonList(c, "ok", dto.ToPersonDTOs(persons), helper.NewPagination(p.Page, p.PerPage, total))
}

// =======================
// GET /api/persons/:id
// =======================
func (ctrl *PersonController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid person id")
	}
	caller, err := policy.FromRequest(c, ctrl.DB)
	if err != nil {
		return helper.JsonAppError(c, err, configs.IsDevelopment())
	}
	if err := caller.AuthorizePerson(id); err != nil {
		return helper.JsonAppError(c, err, false)
	}

	person, err := ctrl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Person not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve person")
	}
	return helper.JsonOK(c, "ok", dto.ToPersonDTO(*person))
}

// =======================
// POST /api/persons
// =======================
func (ctrl *PersonController) Create(c *fiber.Ctx) error {
	var body dto.CreatePersonRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := validatePerson.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	person := body.ToModel()
	if err := ctrl.Repo.Create(c.UserContext(), &person); err != nil {
		if apperror.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "DNI or user account already registered")
		}
		log.Println("[ERROR] create person:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create person")
	}
	return helper.JsonCreated(c, "Person created", dto.ToPersonDTO(person))
}

// =======================
// PUT /api/persons/:id
// =======================
func (ctrl *PersonController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid person id")
	}

	var body dto.UpdatePersonRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := validatePerson.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	person, err := ctrl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Person not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve person")
	}

	if err := ctrl.Repo.Update(c.UserContext(), id, body.ApplyTo(person)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Person not found")
		case apperror.IsUniqueViolation(err):
			return helper.JsonError(c, fiber.StatusConflict, "DNI or user account already registered")
		}
		log.Println("[ERROR] update person:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update person")
	}

	updated, err := ctrl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve person")
	}
	return helper.JsonUpdated(c, "Person updated", dto.ToPersonDTO(*updated))
}

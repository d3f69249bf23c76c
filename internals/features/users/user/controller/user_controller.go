package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authRepo "obra360_backend/internals/features/users/auth/repository"
	authService "obra360_backend/internals/features/users/auth/service"
	"obra360_backend/internals/features/users/user/dto"
	"obra360_backend/internals/features/users/user/model"
	helper "obra360_backend/internals/helpers"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

// GET /api/users
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).Order("email ASC").Find(&users).Error; err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve users")
	}

	out := make([]authService.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, authService.ToUserResponse(u))
	}
	return helper.JsonOK(c, "Users fetched successfully", fiber.Map{
		"total": len(out),
		"users": out,
	})
}

// PATCH /api/users/:id/role
func (uc *UserController) UpdateRole(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := uc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := authRepo.UpdateUserRole(c.UserContext(), uc.DB, userID, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Println("[ERROR] update role:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update role")
	}

	user, err := authRepo.FindUserByID(c.UserContext(), uc.DB, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonUpdated(c, "Role updated", authService.ToUserResponse(*user))
}

package service

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"obra360_backend/internals/constants"
	authHelper "obra360_backend/internals/features/users/auth/helper"
	authRepo "obra360_backend/internals/features/users/auth/repository"
	userModel "obra360_backend/internals/features/users/user/model"
	helper "obra360_backend/internals/helpers"
	"obra360_backend/internals/helpers/apperror"
)

/* ==========================
   Request / Response shapes
========================== */

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserName  string `json:"user_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

func ToUserResponse(u userModel.UserModel) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.FullName(),
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

/* ==========================
   REGISTER
========================== */

// Register creates an OPERARIO account. Roles are raised later by an ADMIN.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := authHelper.ValidateRegisterInput(input.Email, input.Password, input.FirstName, input.LastName); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user := userModel.UserModel{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      constants.RoleOperario,
		IsActive:  true,
	}
	if err := user.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	passwordHash, err := authHelper.HashPassword(user.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	user.Password = passwordHash

	if err := authRepo.CreateUser(c.UserContext(), db, &user); err != nil {
		if apperror.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
		}
		log.Printf("[ERROR] register: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helper.JsonCreated(c, "Registration successful", ToUserResponse(user))
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := authHelper.ValidateLoginInput(input.Email, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := authRepo.FindUserByEmail(c.UserContext(), db, input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !authHelper.CheckPasswordHash(input.Password, user.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account is disabled. Contact an administrator.")
	}

	token, expiresAt, err := IssueAccessToken(*user)
	if err != nil {
		log.Printf("[ERROR] issue token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create access token")
	}

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   expiresAt,
		"user":         ToUserResponse(*user),
	})
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklists the presented access token until its own expiry.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	accessToken, _ := c.Locals(helper.LocToken).(string)
	if accessToken == "" {
		log.Println("[INFO] logout without access token")
		return helper.JsonOK(c, "Logout successful", nil)
	}

	if err := authRepo.BlacklistToken(c.UserContext(), db, accessToken, tokenExpiry(accessToken)); err != nil {
		log.Printf("[WARN] failed to blacklist token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to revoke token")
	}
	return helper.JsonOK(c, "Logout successful", nil)
}

/* ==========================
   ME
========================== */

func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	user, err := authRepo.FindUserByID(c.UserContext(), db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonOK(c, "ok", ToUserResponse(*user))
}

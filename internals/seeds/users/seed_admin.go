package users

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	"obra360_backend/internals/constants"
	authHelper "obra360_backend/internals/features/users/auth/helper"
	"obra360_backend/internals/features/users/user/model"
)

// SeedAdminFromEnv creates the bootstrap ADMIN from ADMIN_EMAIL / ADMIN_PASSWORD.
// An existing account with that email is left untouched.
func SeedAdminFromEnv(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(configs.GetEnv("ADMIN_EMAIL")))
	password := configs.GetEnv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("[INFO] ADMIN_EMAIL/ADMIN_PASSWORD not set, admin seed skipped")
		return nil
	}

	var existing model.UserModel
	err := db.Where("email = ?", email).Take(&existing).Error
	if err == nil {
		log.Printf("[INFO] admin '%s' already exists, skipped", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := authHelper.HashPassword(password)
	if err != nil {
		return err
	}
	admin := model.UserModel{
		Email:     email,
		Password:  hashed,
		FirstName: configs.GetEnv("ADMIN_FIRST_NAME", "Admin"),
		LastName:  configs.GetEnv("ADMIN_LAST_NAME", "Obra360"),
		Role:      constants.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("[INFO] admin '%s' created", email)
	return nil
}

// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "obra360_backend/internals/features/users/auth/model"
	userModel "obra360_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func UpdateUserRole(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string) error {
	res := db.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AuthState is the stored account flag and role, read on every request.
type AuthState struct {
	IsActive bool
	Role     string
}

func LoadAuthState(ctx context.Context, db *gorm.DB, userID uuid.UUID) (AuthState, error) {
	var st AuthState
	err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Select("is_active", "role").
		Where("id = ?", userID).
		Take(&st).Error
	if err != nil {
		return AuthState{}, err
	}
	return st, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(ctx context.Context, db *gorm.DB, token string, expiresAt time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{
			Token:     token,
			ExpiredAt: expiresAt.UTC(),
		}).Error
}

func IsTokenBlacklisted(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var existing authModel.TokenBlacklist
	err := db.WithContext(ctx).Where("token = ?", token).Take(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CleanupExpiredBlacklist removes entries whose token expired before cutoff.
func CleanupExpiredBlacklist(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Unscoped().Where("expired_at <= ?", cutoff.UTC()).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

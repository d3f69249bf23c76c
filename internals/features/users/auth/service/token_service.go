// internals/features/users/auth/service/token_service.go
package service

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"obra360_backend/internals/configs"
	userModel "obra360_backend/internals/features/users/user/model"
)

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	return secret, nil
}

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":        user.ID.String(),
		"email":     user.Email,
		"role":      user.Role,
		"user_name": user.FullName(),
		"iat":       now.Unix(),
		"exp":       now.Add(configs.AccessTokenTTL).Unix(),
	}
}

// IssueAccessToken signs an HS256 access token for user.
func IssueAccessToken(user userModel.UserModel) (string, time.Time, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	now := nowUTC()
	claims := buildAccessClaims(user, now)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, now.Add(configs.AccessTokenTTL), nil
}

// tokenExpiry reads exp without re-validating the signature.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nowUTC().Add(configs.AccessTokenTTL)
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0).UTC()
	}
	return nowUTC().Add(configs.AccessTokenTTL)
}

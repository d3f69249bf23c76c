package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, Status(Validation("bad")))
	assert.Equal(t, fiber.StatusNotFound, Status(NotFound("missing")))
	assert.Equal(t, fiber.StatusForbidden, Status(Forbidden("nope")))
	assert.Equal(t, fiber.StatusConflict, Status(Conflict("dup")))
	assert.Equal(t, fiber.StatusInternalServerError, Status(errors.New("boom")))
	assert.Equal(t, fiber.StatusUnauthorized, Status(fiber.NewError(fiber.StatusUnauthorized, "x")))

	wrapped := fmt.Errorf("mark punch: %w", NotFound("person not found"))
	assert.Equal(t, fiber.StatusNotFound, Status(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "person not found", PublicMessage(NotFound("person not found"), false))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("pq: connection reset"), false))
	assert.Equal(t, "pq: connection reset", PublicMessage(errors.New("pq: connection reset"), true))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: attendance_records.attendance_person_id")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(errors.New("timeout")))
}

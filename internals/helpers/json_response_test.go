package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markInput struct {
	Tipo string `validate:"required,oneof=entrada salida"`
	Hora string `validate:"required"`
}

func validationApp(errFor func() error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonValidationError(c, errFor())
	})
	return app
}

func TestJsonValidationError(t *testing.T) {
	v := validator.New()
	invalid := func() error { return v.Struct(markInput{Tipo: "almuerzo"}) }

	cases := []struct {
		name     string
		err      func() error
		wantCode string
		wantTags map[string]string
	}{
		{
			name:     "field tags",
			err:      invalid,
			wantCode: "VALIDATION_ERROR",
			wantTags: map[string]string{"Tipo": "oneof", "Hora": "required"},
		},
		{
			name:     "wrapped",
			err:      func() error { return fmt.Errorf("decode mark: %w", invalid()) },
			wantCode: "VALIDATION_ERROR",
			wantTags: map[string]string{"Tipo": "oneof", "Hora": "required"},
		},
		{
			name:     "other error",
			err:      func() error { return errors.New("bad json") },
			wantCode: "BAD_REQUEST",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := validationApp(tc.err).Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantCode, body.ErrorCode)
			assert.Equal(t, tc.wantTags, body.Errors)
		})
	}
}

package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestValidateRequest(t *testing.T) {
	type payload struct {
		ConversationId string `validate:"required"`
		Message        string `validate:"required,max=10"`
	}

	err := ValidateRequest(payload{ConversationId: "abc", Message: "hello"})
	assert.NoError(t, err)

	err = ValidateRequest(payload{Message: "hello"})
	assert.Error(t, err)
	var fiberErr *fiber.Error
	assert.True(t, errors.As(err, &fiberErr))
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "ConversationId")
	assert.Contains(t, fiberErr.Message, "required")

	err = ValidateRequest(payload{ConversationId: "abc", Message: "way past the limit"})
	assert.Error(t, err)
	assert.True(t, errors.As(err, &fiberErr))
	assert.Contains(t, fiberErr.Message, "max")
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/forbidden", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "not yours")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("db exploded")
	})
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("done", fiber.Map{"id": 1}))
	})

	tests := []struct {
		path        string
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{"/forbidden", fiber.StatusForbidden, false, "not yours"},
		{"/boom", fiber.StatusInternalServerError, false, "Internal server error"},
		{"/ok", fiber.StatusOK, true, "done"},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		assert.NoError(t, err, tt.path)
		assert.Equal(t, tt.wantStatus, resp.StatusCode, tt.path)

		body, _ := io.ReadAll(resp.Body)
		var envelope Response[any]
		assert.NoError(t, json.Unmarshal(body, &envelope), tt.path)
		assert.Equal(t, tt.wantSuccess, envelope.Success, tt.path)
		assert.Equal(t, tt.wantMessage, envelope.Message, tt.path)
	}
}

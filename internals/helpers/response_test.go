package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func requestEnvelope(t *testing.T, app *fiber.App, path string) envelope {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Equal(t, env.Code, resp.StatusCode)
	return env
}

func TestFromFiberError_AsAppErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FromFiberError})

	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("unexpected")
	})

	t.Run("fiber error keeps its code", func(t *testing.T) {
		env := requestEnvelope(t, app, "/teapot")
		assert.Equal(t, fiber.StatusTeapot, env.Code)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "short and stout", env.Message)
	})

	t.Run("unknown route gets the envelope too", func(t *testing.T) {
		env := requestEnvelope(t, app, "/nope")
		assert.Equal(t, fiber.StatusNotFound, env.Code)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("plain error falls back to 500", func(t *testing.T) {
		env := requestEnvelope(t, app, "/boom")
		assert.Equal(t, fiber.StatusInternalServerError, env.Code)
		assert.Equal(t, "unexpected", env.Message)
	})
}

package controller

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiich/apperrors"
)

func TestRespondErrorCapturesInfrastructureFailure(t *testing.T) {
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, apperrors.Infrastructure(errors.New("pq: connection refused")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	// The client gets the generic message, never the store error.
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Something went wrong. Please try again later.", body["error"])
	assert.NotContains(t, body, "details")

	// Full detail lands server-side.
	entry := hook.LastEntry()
	require.NotNil(t, entry, "infrastructure failures must be logged")
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "infrastructure error", entry.Message)
	assert.Equal(t, "/boom", entry.Data["path"])
	logged, ok := entry.Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.Contains(t, logged.Error(), "connection refused")
}

func TestRespondErrorExpectedFailuresStayQuiet(t *testing.T) {
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return respondError(c, apperrors.ErrNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Nil(t, hook.LastEntry(), "taxonomy errors are not infrastructure noise")
}

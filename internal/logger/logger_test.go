package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	old := L
	L = zap.New(core)
	t.Cleanup(func() { L = old })
	return logs
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	logs := captureLogs(t)

	app := fiber.New()
	app.Use(RequestID())
	app.Use(RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/missing", nil), -1)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.EqualValues(t, fiber.StatusCreated, entries[0].ContextMap()["status"])
	// the handler's error status is logged, not the pre-error default
	assert.EqualValues(t, fiber.StatusNotFound, entries[1].ContextMap()["status"])
}

func TestRequestIDHonorsInboundHeader(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-abc-123", res.Header.Get("X-Request-ID"))

	res, err = app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

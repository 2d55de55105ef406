package system

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"go-dashboard/internal/config"
	"go-dashboard/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemApp() (*fiber.App, *logger.RecentLog) {
	cfg := &config.Config{SkipAuth: true, DefaultTimeZone: "UTC"}
	recent := logger.NewRecentLog()
	app := fiber.New()
	NewHealthApi().Setup(app)
	NewDebugApi(NewDebugController(recent), cfg).Setup(app)
	return app, recent
}

func TestHealthCheck(t *testing.T) {
	app, _ := newSystemApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestDebugEndpoints(t *testing.T) {
	app, recent := newSystemApp()
	recent.Add(logger.Entry{Level: "warn", Message: "Report fetch failed"})

	req := httptest.NewRequest("GET", "/api/debug/me", nil)
	req.Header.Set("X-Account-ID", "acct-9")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "dev-user-id", me["user_id"])
	assert.Equal(t, "acct-9", me["account_id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/debug/logs", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []logger.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Report fetch failed", entries[0].Message)
}

package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	_ "time/tzdata"

	"go-dashboard/internal/config"
	"go-dashboard/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		session, ok := SessionFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(session.UserID + "|" + session.AccountID + "|" + session.TimeZone + "|" + session.Token)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("mw-secret")
	cfg := &config.Config{DefaultTimeZone: "UTC"}
	app := newAuthApp(cfg)

	token, err := utils.GenerateToken("u-7", "acct-1", "America/Phoenix", nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"bearer header", "/whoami", "Bearer " + token, fiber.StatusOK, "u-7|acct-1|America/Phoenix|" + token},
		{"query token", "/whoami?access_token=" + token, "", fiber.StatusOK, "u-7|acct-1|America/Phoenix|" + token},
		{"missing", "/whoami", "", fiber.StatusUnauthorized, ""},
		{"wrong scheme", "/whoami", "Basic abc", fiber.StatusUnauthorized, ""},
		{"garbage token", "/whoami", "Bearer not-a-jwt", fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestAuthMiddlewareSkipAuth(t *testing.T) {
	app := newAuthApp(&config.Config{SkipAuth: true, DefaultTimeZone: "Europe/London"})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Account-ID", "acct-dev")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "dev-user-id|acct-dev|Europe/London|", string(body))
}

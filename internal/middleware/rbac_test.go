package middleware

import (
	"net/http/httptest"
	"testing"

	"go-dashboard/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		roles  []string
		noAuth bool
		want   int
	}{
		{name: "matching role", roles: []string{"dispatcher", "admin"}, want: fiber.StatusOK},
		{name: "role case ignored", roles: []string{"Owner"}, want: fiber.StatusOK},
		{name: "no matching role", roles: []string{"dispatcher"}, want: fiber.StatusForbidden},
		{name: "no session", noAuth: true, want: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				if !tt.noAuth {
					c.Locals(models.SessionKey, models.NewSession("u-1", "", "", "", tt.roles, "UTC"))
				}
				return c.Next()
			})
			app.Get("/admin", RequireRole("admin", "owner"), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

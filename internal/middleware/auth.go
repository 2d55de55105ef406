package middleware

import (
	"strings"

	"go-dashboard/internal/common/models"
	"go-dashboard/internal/config"
	"go-dashboard/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT tokens and injects the caller's session into context
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.SkipAuth {
			// Inject dummy session for dev
			session := models.NewSession("dev-user-id", c.Get("X-Account-ID"), c.Get("X-Time-Zone"), "", []string{"admin"}, cfg.DefaultTimeZone)
			c.Locals(models.SessionKey, session)
			return c.Next()
		}

		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		session := models.NewSession(claims.UserID, claims.AccountID, claims.TimeZone, token, claims.Roles, cfg.DefaultTimeZone)
		c.Locals(models.SessionKey, session)
		return c.Next()
	}
}

// bearerToken reads "Bearer <token>" from the Authorization header. Websocket
// upgrades from browsers cannot set headers, so access_token in the query
// string is accepted as well.
func bearerToken(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(authHeader[7:])
		return token, token != ""
	}
	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// SessionFrom returns the session AuthMiddleware stored on the request.
func SessionFrom(c *fiber.Ctx) (*models.Session, bool) {
	session, ok := c.Locals(models.SessionKey).(*models.Session)
	return session, ok && session != nil
}

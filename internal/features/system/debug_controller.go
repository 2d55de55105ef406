package system

import (
	"go-dashboard/internal/logger"
	"go-dashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct {
	Recent *logger.RecentLog
}

func NewDebugController(recent *logger.RecentLog) *DebugController {
	return &DebugController{Recent: recent}
}

// GetCurrentUser godoc
// @Summary      Get current session
// @Description  The session the service resolved from the caller's token
// @Tags         debug
// @Produce      json
// @Success      200  {object}  models.Session
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return ctx.JSON(session)
}

// RecentLogs godoc
// @Summary      Recent warnings and errors
// @Tags         debug
// @Produce      json
// @Success      200  {array}  logger.Entry
// @Router       /api/debug/logs [get]
func (c *DebugController) RecentLogs(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Recent.Entries())
}

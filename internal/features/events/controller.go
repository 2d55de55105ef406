package events

import (
	"errors"

	"go-dashboard/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const viewIDLocal = "viewID"

type EventsController struct {
	Hub    *Hub
	Guard  ViewGuard
	Logger *zap.Logger
}

func NewEventsController(hub *Hub, guard ViewGuard, logger *zap.Logger) *EventsController {
	return &EventsController{Hub: hub, Guard: guard, Logger: logger}
}

// Upgrade rejects plain HTTP requests and views the caller does not own
// before the websocket handshake.
func (c *EventsController) Upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	viewID := ctx.Params("id")
	if err := c.Guard.Authorize(viewID, session.UserID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Locals(viewIDLocal, viewID)
	return ctx.Next()
}

// Stream writes every event for the view as a JSON text frame until the
// client goes away or the view is closed.
func (c *EventsController) Stream(conn *websocket.Conn) {
	viewID, _ := conn.Locals(viewIDLocal).(string)
	sub := c.Hub.Subscribe(viewID)
	defer sub.Cancel()

	// The browser never sends anything meaningful; reading detects the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Cancel()
				return
			}
		}
	}()

	for e := range sub.Events() {
		if err := conn.WriteJSON(e); err != nil {
			c.Logger.Debug("View event stream write failed", zap.String("view_id", viewID), zap.Error(err))
			return
		}
	}
}

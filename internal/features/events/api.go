package events

import (
	"go-dashboard/internal/config"
	"go-dashboard/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type EventsApi struct {
	Controller *EventsController
	Config     *config.Config
}

func NewEventsApi(controller *EventsController, cfg *config.Config) *EventsApi {
	return &EventsApi{Controller: controller, Config: cfg}
}

func (a *EventsApi) Setup(app *fiber.App) {
	app.Get("/ws/views/:id",
		middleware.AuthMiddleware(a.Config),
		a.Controller.Upgrade,
		websocket.New(a.Controller.Stream),
	)
}

package report

import (
	"errors"

	"go-dashboard/internal/config"
	"go-dashboard/internal/features/events"
	"go-dashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(api.Config)
	c := api.ReportController

	app.Get("/api/reports", auth, c.Catalog)

	views := app.Group("/api/views", auth)
	views.Get("/", c.ListViews)
	views.Post("/", c.CreateView)
	views.Get("/:id", c.GetView)
	views.Delete("/:id", c.CloseView)

	views.Put("/:id/search", c.SetSearch)
	views.Put("/:id/sort", c.SetSort)
	views.Post("/:id/sort/:field", c.ClickSortHeader)
	views.Put("/:id/page", c.SetPage)
	views.Post("/:id/page/:nav", c.Navigate)
	views.Put("/:id/page-size", c.SetPageSize)
	views.Put("/:id/filters/:field", c.ToggleFilter)
	views.Put("/:id/tags", c.ToggleTag)
	views.Put("/:id/date-range", c.SetDateRange)
	views.Post("/:id/refresh", c.Refresh)
	views.Get("/:id/export", c.Export)
}

// EventGuard lets the event stream reuse view ownership checks.
type EventGuard struct {
	Service ReportService
}

func NewEventGuard(service ReportService) events.ViewGuard {
	return &EventGuard{Service: service}
}

func (g *EventGuard) Authorize(viewID, userID string) error {
	err := g.Service.Authorize(viewID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrViewNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	return err
}

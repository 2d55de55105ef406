package report

import (
	"errors"
	"fmt"
	"time"

	"go-dashboard/internal/daterange"
	"go-dashboard/internal/middleware"
	"go-dashboard/internal/pagination"
	"go-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

type createViewRequest struct {
	Report Name `json:"report"`
}

type searchRequest struct {
	Search string `json:"search"`
}

type sortRequest struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type pageSizeRequest struct {
	PageSize int `json:"page_size"`
}

type toggleRequest struct {
	Value string `json:"value"`
	On    bool   `json:"on"`
}

type dateRangeRequest struct {
	Preset   string `json:"preset"`
	MinDate  string `json:"min_date"`
	MaxDate  string `json:"max_date"`
	DateType string `json:"date_type"`
}

type catalogResponse struct {
	Reports   []*Config          `json:"reports"`
	Presets   []daterange.Preset `json:"presets"`
	PageSizes []int              `json:"page_sizes"`
}

// Catalog godoc
// @Summary      List mountable reports
// @Tags         reports
// @Produce      json
// @Router       /api/reports [get]
func (c *ReportController) Catalog(ctx *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return ctx.JSON(catalogResponse{
		Reports:   c.ReportService.Catalog(session),
		Presets:   daterange.Presets(),
		PageSizes: pagination.PageSizes,
	})
}

// CreateView godoc
// @Summary      Mount a report view
// @Tags         views
// @Accept       json
// @Produce      json
// @Router       /api/views [post]
func (c *ReportController) CreateView(ctx *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req createViewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := c.ReportService.CreateView(ctx.UserContext(), session, req.Report)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(view.Snapshot())
}

// ListViews godoc
// @Summary      List the caller's mounted views
// @Tags         views
// @Produce      json
// @Router       /api/views [get]
func (c *ReportController) ListViews(ctx *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	out := []*Snapshot{}
	for _, v := range c.ReportService.ListViews(session) {
		out = append(out, v.Snapshot())
	}
	return ctx.JSON(out)
}

func (c *ReportController) GetView(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(view.Snapshot())
}

func (c *ReportController) CloseView(ctx *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err := c.ReportService.CloseView(ctx.Params("id"), session); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *ReportController) SetSearch(ctx *fiber.Ctx) error {
	var req searchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.SetSearch(req.Search), nil
	})
}

func (c *ReportController) SetSort(ctx *fiber.Ctx) error {
	var req sortRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	dir, err := pagination.ParseDirection(req.Direction)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.SetSort(req.Field, dir)
	})
}

// ClickSortHeader godoc
// @Summary      Column header click: flip direction or switch column
// @Tags         views
// @Router       /api/views/{id}/sort/{field} [post]
func (c *ReportController) ClickSortHeader(ctx *fiber.Ctx) error {
	field := ctx.Params("field")
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.ClickSortHeader(field)
	})
}

func (c *ReportController) SetPage(ctx *fiber.Ctx) error {
	var req pageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.SetPage(req.Page)
	})
}

func (c *ReportController) Navigate(ctx *fiber.Ctx) error {
	nav := pagination.Nav(ctx.Params("nav"))
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.Navigate(nav)
	})
}

func (c *ReportController) SetPageSize(ctx *fiber.Ctx) error {
	var req pageSizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.SetPageSize(req.PageSize)
	})
}

func (c *ReportController) ToggleFilter(ctx *fiber.Ctx) error {
	var req toggleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	field := FilterField(ctx.Params("field"))
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.ToggleFilter(field, req.Value, req.On)
	})
}

func (c *ReportController) ToggleTag(ctx *fiber.Ctx) error {
	var req toggleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.mutate(ctx, func(v *View) (bool, error) {
		return v.ToggleTag(req.Value, req.On)
	})
}

// SetDateRange godoc
// @Summary      Change the date window; never refetches
// @Description  Applies date_type, then preset, then explicit min/max dates.
// @Tags         views
// @Router       /api/views/{id}/date-range [put]
func (c *ReportController) SetDateRange(ctx *fiber.Ctx) error {
	var req dateRangeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.mutate(ctx, func(v *View) (bool, error) {
		return false, applyDateRange(v, req)
	})
}

func (c *ReportController) Refresh(ctx *fiber.Ctx) error {
	return c.mutate(ctx, func(*View) (bool, error) {
		return true, nil
	})
}

// Export godoc
// @Summary      Download the loaded page as XLSX
// @Tags         views
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router       /api/views/{id}/export [get]
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	view, err := c.view(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	data, filename, err := c.ReportService.ExportExcel(view)
	if err != nil {
		return errorResponse(ctx, err)
	}

	ctx.Attachment(filename)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(data)
}

func (c *ReportController) view(ctx *fiber.Ctx) (*View, error) {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return c.ReportService.GetView(ctx.Params("id"), session)
}

// mutate runs fn against the addressed view and answers with its snapshot.
// A failed fetch is not a failed request: the snapshot carries last_error.
func (c *ReportController) mutate(ctx *fiber.Ctx, fn Mutation) error {
	view, err := c.view(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err := c.ReportService.Mutate(ctx.UserContext(), view, fn); err != nil {
		var ue *upstream.Error
		if !errors.As(err, &ue) {
			return errorResponse(ctx, err)
		}
	}
	return ctx.JSON(view.Snapshot())
}

func errorResponse(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return ctx.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, ErrInvalidInput):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrViewNotFound), errors.Is(err, ErrUnknownReport):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotLoaded):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func applyDateRange(v *View, req dateRangeRequest) error {
	var ch DateRangeChange
	if req.DateType != "" {
		t, ok := ParseDateType(req.DateType)
		if !ok {
			return fmt.Errorf("%w: unknown date type %q", ErrInvalidInput, req.DateType)
		}
		ch.DateType = &t
	}

	if req.Preset != "" {
		p, ok := daterange.ParsePreset(req.Preset)
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalidInput, req.Preset)
		}
		ch.Preset = &p
	}

	loc := v.Session.Loc()
	var err error
	if req.MinDate != "" {
		if ch.Min, err = parseDate(req.MinDate, loc); err != nil {
			return err
		}
	}
	if req.MaxDate != "" {
		if ch.Max, err = parseDate(req.MaxDate, loc); err != nil {
			return err
		}
	}

	return v.ApplyDateRange(ch)
}

// parseDate accepts a calendar day in the user's zone or a full timestamp.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, s)
	}
	return t, nil
}

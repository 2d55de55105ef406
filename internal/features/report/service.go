package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-dashboard/internal/common/models"
	"go-dashboard/internal/config"
	"go-dashboard/internal/features/events"
	"go-dashboard/internal/upstream"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Mutation changes a view's query state and reports whether a refetch is due.
type Mutation func(v *View) (bool, error)

type ReportService interface {
	Catalog(session *models.Session) []*Config
	CreateView(ctx context.Context, session *models.Session, name Name) (*View, error)
	GetView(id string, session *models.Session) (*View, error)
	CloseView(id string, session *models.Session) error
	ListViews(session *models.Session) []*View
	Mutate(ctx context.Context, view *View, fn Mutation) error
	Refresh(ctx context.Context, view *View) error
	ExportExcel(view *View) ([]byte, string, error)
	SweepIdle(now time.Time) int
	Authorize(viewID, userID string) error
}

type ReportServiceImpl struct {
	ViewRepo ViewRepository
	Client   upstream.ReportClient
	Events   events.Publisher
	Logger   *zap.Logger
	Config   *config.Config
	Clock    func() time.Time
}

func NewReportService(viewRepo ViewRepository, client upstream.ReportClient, publisher events.Publisher, cfg *config.Config, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		ViewRepo: viewRepo,
		Client:   client,
		Events:   publisher,
		Logger:   logger,
		Config:   cfg,
		Clock:    time.Now,
	}
}

// Catalog lists the reports session may mount.
func (s *ReportServiceImpl) Catalog(session *models.Session) []*Config {
	var out []*Config
	for _, c := range Catalog() {
		if c.AllowedFor(session.Roles) {
			out = append(out, c)
		}
	}
	return out
}

// CreateView mounts a report and runs its first fetch. A failed first
// fetch still returns the view; the failure is on its LastError.
func (s *ReportServiceImpl) CreateView(ctx context.Context, session *models.Session, name Name) (*View, error) {
	cfg, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if !cfg.AllowedFor(session.Roles) {
		return nil, ErrForbidden
	}

	view := NewView(uuid.NewString(), cfg, *session, s.Clock)
	s.ViewRepo.Save(view)

	s.Logger.Info("Report view mounted",
		zap.String("view_id", view.ID),
		zap.String("report", string(name)),
		zap.String("user_id", session.UserID),
	)

	if err := s.Refresh(ctx, view); err != nil && !isUpstream(err) {
		return nil, err
	}
	return view, nil
}

func (s *ReportServiceImpl) GetView(id string, session *models.Session) (*View, error) {
	view, err := s.owned(id, session.UserID)
	if err != nil {
		return nil, err
	}
	view.UseToken(session.Token)
	view.Touch()
	return view, nil
}

func (s *ReportServiceImpl) CloseView(id string, session *models.Session) error {
	if _, err := s.owned(id, session.UserID); err != nil {
		return err
	}
	if err := s.ViewRepo.Delete(id); err != nil {
		return err
	}
	s.Events.Close(id)
	return nil
}

func (s *ReportServiceImpl) ListViews(session *models.Session) []*View {
	var out []*View
	for _, v := range s.ViewRepo.List() {
		if v.Session.UserID == session.UserID {
			out = append(out, v)
		}
	}
	return out
}

// Authorize reports whether userID owns viewID.
func (s *ReportServiceImpl) Authorize(viewID, userID string) error {
	_, err := s.owned(viewID, userID)
	return err
}

func (s *ReportServiceImpl) owned(id, userID string) (*View, error) {
	view, err := s.ViewRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if view.Session.UserID != userID {
		return nil, ErrForbidden
	}
	return view, nil
}

// Mutate applies fn and refetches when fn asks for it. The deprecated event
// fires only on the transition into the deprecated state.
func (s *ReportServiceImpl) Mutate(ctx context.Context, view *View, fn Mutation) error {
	view.Touch()
	wasDeprecated := view.Deprecated()

	refetch, err := fn(view)
	if err != nil {
		return err
	}

	if !wasDeprecated && view.Deprecated() {
		s.Events.Publish(events.Event{Type: events.Deprecated, ViewID: view.ID, At: s.Clock()})
	}
	if !refetch {
		return nil
	}
	return s.Refresh(ctx, view)
}

// Refresh fetches the page the view's current state describes. Upstream
// failures are recorded on the view and returned as *upstream.Error; a
// response that lost the race to a newer fetch is dropped silently.
func (s *ReportServiceImpl) Refresh(ctx context.Context, view *View) error {
	seq, form := view.BeginFetch()
	cfg := view.Config

	body, err := s.Client.PostForm(ctx, cfg.Endpoint, view.Token(), form)
	if err == nil {
		var res *Result
		res, err = ParseResult(body, cfg.RowsKey, s.Clock(), view.Session.Loc())
		if err == nil {
			if cerr := view.CompleteFetch(seq, res); cerr != nil {
				s.logSuperseded(view, seq)
				return nil
			}
			s.Events.Publish(events.Event{Type: events.Fetched, ViewID: view.ID, At: s.Clock()})
			return nil
		}
		err = fmt.Errorf("parse %s response: %w", cfg.Name, err)
	}

	if ferr := view.FailFetch(seq, err); ferr != nil {
		s.logSuperseded(view, seq)
		return nil
	}

	normalized := upstream.Normalize(err)
	s.Logger.Warn("Report fetch failed",
		zap.String("view_id", view.ID),
		zap.String("report", string(cfg.Name)),
		zap.String("kind", string(normalized.Kind)),
		zap.Int("status", normalized.Status),
		zap.Error(err),
	)
	s.Events.Publish(events.Event{Type: events.FetchFailed, ViewID: view.ID, ErrorText: normalized.Text, At: s.Clock()})
	return normalized
}

func (s *ReportServiceImpl) logSuperseded(view *View, seq uint64) {
	s.Logger.Debug("Discarding superseded report response",
		zap.String("view_id", view.ID),
		zap.Uint64("seq", seq),
	)
}

// ExportExcel renders the loaded page as a workbook.
func (s *ReportServiceImpl) ExportExcel(view *View) ([]byte, string, error) {
	res := view.Result()
	if res == nil {
		return nil, "", ErrNotLoaded
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := view.Config.Title
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", err
	}

	columns := exportColumns(view.Config.Columns, res.Rows)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, "", err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, "", err
		}
	}

	for rowIdx, row := range res.Rows {
		for colIdx, col := range columns {
			value := exportValue(row[col])
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	for i := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetColWidth(sheetName, col, col, 15); err != nil {
			return nil, "", err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_%s.xlsx", view.Config.Name, s.Clock().In(view.Session.Loc()).Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

// exportValue flattens nested row values into something a cell can hold;
// objects show their name when they have one.
func exportValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		if name, ok := v["name"]; ok {
			return fmt.Sprintf("%v", name)
		}
		return fmt.Sprintf("%v", v)
	case []any:
		return fmt.Sprintf("%v", v)
	}
	return v
}

// exportColumns prefers the configured columns; without them it uses every
// key seen in rows, sorted.
func exportColumns(configured []string, rows []map[string]any) []string {
	if len(configured) > 0 {
		return configured
	}
	seen := map[string]bool{}
	var cols []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// SweepIdle closes views untouched for longer than the configured TTL and
// returns how many it closed.
func (s *ReportServiceImpl) SweepIdle(now time.Time) int {
	ttl := s.Config.ViewIdleTTL
	if ttl <= 0 {
		return 0
	}
	closed := 0
	for _, v := range s.ViewRepo.List() {
		if now.Sub(v.LastTouched()) <= ttl {
			continue
		}
		if err := s.ViewRepo.Delete(v.ID); err != nil {
			continue
		}
		s.Events.Close(v.ID)
		closed++
	}
	if closed > 0 {
		s.Logger.Info("Evicted idle report views", zap.Int("count", closed))
	}
	return closed
}

func isUpstream(err error) bool {
	var ue *upstream.Error
	return errors.As(err, &ue)
}

package report

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"go-dashboard/internal/common/models"
	"go-dashboard/internal/daterange"
	"go-dashboard/internal/filterwords"
	"go-dashboard/internal/pagination"
	"go-dashboard/internal/upstream"
)

// tagField is the pseudo-field tag words are stored under.
const tagField = "tags"

// QueryState is everything the user has set on a mounted report.
type QueryState struct {
	Search   string
	Filters  *filterwords.Set
	Tags     *filterwords.Set
	DateType DateType
	Preset   daterange.Preset
	Range    daterange.Range
	Sort     pagination.Sort
	Page     int
	PageSize int
}

// View is one mounted report: its query state, the last result fetched for
// it, and whether that result still matches the date window on screen.
// All methods are safe for concurrent use.
type View struct {
	ID      string
	Config  *Config
	Session models.Session

	mu         sync.Mutex
	state      QueryState
	result     *Result
	deprecated bool
	issued     uint64
	lastErr    *upstream.Error
	token      string
	touched    time.Time
	clock      func() time.Time
}

func NewView(id string, cfg *Config, session models.Session, clock func() time.Time) *View {
	if clock == nil {
		clock = time.Now
	}
	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = pagination.DefaultPageSize
	}

	v := &View{
		ID:      id,
		Config:  cfg,
		Session: session,
		token:   session.Token,
		clock:   clock,
		touched: clock(),
		state: QueryState{
			Filters:  filterwords.NewSet(cfg.DeselectPolicy),
			Tags:     filterwords.NewSet(cfg.DeselectPolicy),
			Sort:     cfg.DefaultSort,
			Page:     1,
			PageSize: pageSize,
		},
	}

	if cfg.DateMode != DateNone {
		preset := cfg.DefaultPreset
		if preset == "" {
			preset = daterange.Today
		}
		v.state.Preset = preset
		v.state.Range = daterange.Resolve(preset, daterange.Range{}, clock(), v.loc())
	}
	if cfg.DateMode == DateDual {
		v.state.DateType = DateCreated
	}
	return v
}

func (v *View) loc() *time.Location {
	return v.Session.Loc()
}

// markDeprecated flags the loaded result as no longer matching the date
// window, when the report gates staleness on flag.
func (v *View) markDeprecated(flag StaleOn) {
	if v.result != nil && v.Config.StaleOn.Has(flag) {
		v.deprecated = true
	}
}

func (v *View) requireDates() error {
	if v.Config.DateMode == DateNone {
		return fmt.Errorf("%w: %s has no date range", ErrInvalidInput, v.Config.Name)
	}
	return nil
}

// SetSearch reports whether a refetch is needed.
func (v *View) SetSearch(text string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.Search == text {
		return false
	}
	v.state.Search = text
	v.state.Page = 1
	return true
}

func (v *View) SetSort(field string, dir pagination.Direction) (bool, error) {
	if field == "" {
		return false, fmt.Errorf("%w: sort field required", ErrInvalidInput)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	next := pagination.Sort{Field: field, Direction: dir}
	if v.state.Sort == next {
		return false, nil
	}
	v.state.Sort = next
	return true, nil
}

// ClickSortHeader always refetches.
func (v *View) ClickSortHeader(field string) (bool, error) {
	if field == "" {
		return false, fmt.Errorf("%w: sort field required", ErrInvalidInput)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Sort = pagination.ClickHeader(v.state.Sort, field, v.Config.SortDefaultDirection)
	return true, nil
}

func (v *View) SetPage(n int) (bool, error) {
	if n < 1 {
		return false, fmt.Errorf("%w: page must be at least 1", ErrInvalidInput)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.result != nil && v.result.Interface.MaxPages > 0 && n > v.result.Interface.MaxPages {
		return false, fmt.Errorf("%w: page %d beyond last page %d", ErrInvalidInput, n, v.result.Interface.MaxPages)
	}
	if v.state.Page == n {
		return false, nil
	}
	v.state.Page = n
	return true, nil
}

// Navigate applies a pager button click.
func (v *View) Navigate(nav pagination.Nav) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	maxPages := 0
	if v.result != nil {
		maxPages = v.result.Interface.MaxPages
	}
	page, err := pagination.Navigate(v.state.Page, maxPages, nav)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if page == v.state.Page {
		return false, nil
	}
	v.state.Page = page
	return true, nil
}

func (v *View) SetPageSize(n int) (bool, error) {
	if err := pagination.ValidPageSize(n); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.PageSize == n {
		return false, nil
	}
	v.state.PageSize = n
	v.state.Page = 1
	return true, nil
}

// DateRangeChange is one date-range edit. Nil or zero fields are left as
// they are; the change is applied in field order.
type DateRangeChange struct {
	DateType *DateType
	Preset   *daterange.Preset
	Min      time.Time
	Max      time.Time
}

// ApplyDateRange validates the whole change before writing any of it, so a
// rejected change leaves the view untouched. Never refetches.
func (v *View) ApplyDateRange(ch DateRangeChange) error {
	if ch.DateType != nil && v.Config.DateMode != DateDual {
		return fmt.Errorf("%w: %s has a single date type", ErrInvalidInput, v.Config.Name)
	}
	if ch.Preset != nil || !ch.Min.IsZero() || !ch.Max.IsZero() {
		if err := v.requireDates(); err != nil {
			return err
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	loc := v.loc()
	dateType, preset, rng := v.state.DateType, v.state.Preset, v.state.Range
	var stale []StaleOn

	if ch.DateType != nil && *ch.DateType != dateType {
		dateType = *ch.DateType
		stale = append(stale, StaleOnDateType)
	}

	if ch.Preset != nil {
		preset = *ch.Preset
		if preset != daterange.Custom && v.result != nil {
			next := daterange.Resolve(preset, rng, v.clock(), loc)
			if !sameRange(next, rng) {
				rng = next
				stale = append(stale, StaleOnDates)
			}
		}
	}

	switch {
	case !ch.Min.IsZero() && !ch.Max.IsZero():
		r := daterange.Normalize(daterange.Range{Min: ch.Min, Max: ch.Max}, loc)
		if r.Min.After(r.Max) {
			return fmt.Errorf("%w: start date after end date", ErrInvalidInput)
		}
		rng = r
	case !ch.Min.IsZero():
		start := daterange.StartOfDay(ch.Min, loc)
		if !rng.Max.IsZero() && start.After(rng.Max) {
			return fmt.Errorf("%w: start date after end date", ErrInvalidInput)
		}
		rng.Min = start
	case !ch.Max.IsZero():
		end := daterange.EndOfDay(ch.Max, loc)
		if !rng.Min.IsZero() && end.Before(rng.Min) {
			return fmt.Errorf("%w: end date before start date", ErrInvalidInput)
		}
		rng.Max = end
	}
	if !ch.Min.IsZero() || !ch.Max.IsZero() {
		preset = daterange.Custom
		stale = append(stale, StaleOnDates)
	}

	v.state.DateType = dateType
	v.state.Preset = preset
	v.state.Range = rng
	for _, flag := range stale {
		v.markDeprecated(flag)
	}
	return nil
}

// SetDateRangePreset records the preset and, once a result exists to
// anchor on, recomputes the window from it. Never refetches.
func (v *View) SetDateRangePreset(p daterange.Preset) error {
	return v.ApplyDateRange(DateRangeChange{Preset: &p})
}

// SetMinDate switches the preset to custom. Never refetches.
func (v *View) SetMinDate(d time.Time) error {
	return v.ApplyDateRange(DateRangeChange{Min: d})
}

// SetMaxDate switches the preset to custom. Never refetches.
func (v *View) SetMaxDate(d time.Time) error {
	return v.ApplyDateRange(DateRangeChange{Max: d})
}

// SetCustomRange sets both bounds at once, validating them against each
// other rather than against the current window.
func (v *View) SetCustomRange(start, end time.Time) error {
	return v.ApplyDateRange(DateRangeChange{Min: start, Max: end})
}

// SetDateRangeType switches between created and scheduled dates on dual
// date reports. Never refetches.
func (v *View) SetDateRangeType(t DateType) error {
	return v.ApplyDateRange(DateRangeChange{DateType: &t})
}

func (v *View) ToggleFilter(field FilterField, value string, on bool) (bool, error) {
	if !v.Config.HasFilter(field) {
		return false, fmt.Errorf("%w: %s cannot be filtered by %q", ErrInvalidInput, v.Config.Name, field)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.state.Filters.Toggle(string(field), value, on) {
		return false, nil
	}
	v.state.Page = 1
	return true, nil
}

func (v *View) ToggleTag(value string, on bool) (bool, error) {
	if !v.Config.Tags {
		return false, fmt.Errorf("%w: %s has no tags", ErrInvalidInput, v.Config.Name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.state.Tags.Toggle(tagField, value, on) {
		return false, nil
	}
	v.state.Page = 1
	return true, nil
}

// BeginFetch issues the next sequence number along with the query to send.
func (v *View) BeginFetch() (uint64, url.Values) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.issued++
	return v.issued, v.buildQuery()
}

// CompleteFetch installs res if seq is still the latest issued fetch.
func (v *View) CompleteFetch(seq uint64, res *Result) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.issued {
		return ErrSuperseded
	}

	v.result = res
	v.deprecated = false
	v.lastErr = nil

	for _, field := range v.Config.FilterFields {
		v.state.Filters.SetOptions(string(field), res.Interface.FilterWords[string(field)])
	}
	if v.Config.Tags {
		v.state.Tags.SetOptions(tagField, res.Interface.TagWords)
	}

	if v.Config.DateMode != DateNone {
		echoed := v.state.Range
		if res.Interface.MinDate != nil {
			echoed.Min = *res.Interface.MinDate
		}
		if res.Interface.MaxDate != nil {
			echoed.Max = *res.Interface.MaxDate
		}
		v.state.Range = daterange.Normalize(echoed, v.loc())
	}
	return nil
}

// FailFetch records a failed fetch. The previous result and the deprecated
// flag are left as they were.
func (v *View) FailFetch(seq uint64, err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.issued {
		return ErrSuperseded
	}
	v.lastErr = upstream.Normalize(err)
	return nil
}

func (v *View) Deprecated() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deprecated
}

// Result returns the last successfully fetched page, or nil.
func (v *View) Result() *Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

func (v *View) LastError() *upstream.Error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// UseToken replaces the bearer token later fetches send. Empty tokens are
// ignored.
func (v *View) UseToken(token string) {
	if token == "" {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = token
}

func (v *View) Token() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token
}

func (v *View) Touch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touched = v.clock()
}

func (v *View) LastTouched() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.touched
}

func sameRange(a, b daterange.Range) bool {
	return a.Min.Equal(b.Min) && a.Max.Equal(b.Max)
}

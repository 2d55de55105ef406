package report

import (
	"time"

	"go-dashboard/internal/daterange"
	"go-dashboard/internal/filterwords"
	"go-dashboard/internal/pagination"
	"go-dashboard/internal/upstream"
)

type StateView struct {
	Search   string           `json:"search"`
	DateType DateType         `json:"date_type,omitempty"`
	Preset   daterange.Preset `json:"preset,omitempty"`
	MinDate  *time.Time       `json:"min_date,omitempty"`
	MaxDate  *time.Time       `json:"max_date,omitempty"`
	Sort     pagination.Sort  `json:"sort"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type FilterOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FilterView is one filter dropdown as the browser renders it.
type FilterView struct {
	AllSelected bool                  `json:"all_selected"`
	Selected    filterwords.Selection `json:"selected"`
	Options     []FilterOption        `json:"options"`
}

// Snapshot is the read model returned after every view operation.
type Snapshot struct {
	ID         string                `json:"id"`
	Report     *Config               `json:"report"`
	State      StateView             `json:"state"`
	Result     *Result               `json:"result,omitempty"`
	Pagination *pagination.State     `json:"pagination,omitempty"`
	Filters    map[string]FilterView `json:"filters"`
	Tags       *FilterView           `json:"tags,omitempty"`
	Deprecated bool                  `json:"report_is_deprecated"`
	LastError  *upstream.Error       `json:"last_error,omitempty"`
	Loaded     bool                  `json:"loaded"`
}

func (v *View) Snapshot() *Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := v.state
	snap := &Snapshot{
		ID:     v.ID,
		Report: v.Config,
		State: StateView{
			Search:   st.Search,
			DateType: st.DateType,
			Preset:   st.Preset,
			Sort:     st.Sort,
			Page:     st.Page,
			PageSize: st.PageSize,
		},
		Result:     v.result,
		Filters:    make(map[string]FilterView, len(v.Config.FilterFields)),
		Deprecated: v.deprecated,
		LastError:  v.lastErr,
		Loaded:     v.result != nil,
	}

	if v.Config.DateMode != DateNone {
		start, end := st.Range.Min, st.Range.Max
		snap.State.MinDate = &start
		snap.State.MaxDate = &end
	}

	if v.result != nil {
		meta := v.result.Interface
		p := pagination.Derive(st.Page, meta.MaxPages, meta.RowsStart, meta.RowsEnd, meta.RowsAll)
		snap.Pagination = &p
	}

	for _, field := range v.Config.FilterFields {
		snap.Filters[string(field)] = filterView(st.Filters, string(field))
	}
	if v.Config.Tags {
		tags := filterView(st.Tags, tagField)
		snap.Tags = &tags
	}
	return snap
}

func filterView(set *filterwords.Set, field string) FilterView {
	fv := FilterView{
		AllSelected: set.IsAllSelected(field),
		Selected:    set.Selected(field),
		Options:     []FilterOption{},
	}
	if fv.Selected == nil {
		fv.Selected = filterwords.Selection{}
	}
	for _, o := range set.Options(field) {
		fv.Options = append(fv.Options, FilterOption{Value: o, Selected: set.IsSelected(field, o)})
	}
	return fv
}

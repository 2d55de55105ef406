package report

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"go-dashboard/internal/daterange"
	"go-dashboard/internal/filterwords"
	"go-dashboard/internal/pagination"
)

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrViewNotFound  = errors.New("view not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotLoaded     = errors.New("report not loaded yet")
	// ErrSuperseded marks a fetch outcome that arrived after a newer fetch was issued.
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// Name identifies a report page.
type Name string

const (
	Calls        Name = "calls"
	Jobs         Name = "jobs"
	Clients      Name = "clients"
	Absences     Name = "absences"
	Appointments Name = "appointments"
	PhoneNumbers Name = "phone_numbers"
	Dispatchers  Name = "dispatchers"
	Users        Name = "users"
	Permissions  Name = "permissions"
)

// FilterField identifies a multi-select column filter.
type FilterField string

const (
	FieldArea            FilterField = "area"
	FieldStatus          FilterField = "status"
	FieldSource          FilterField = "source"
	FieldCallType        FilterField = "call_type"
	FieldCallStatus      FilterField = "call_status"
	FieldDispatcher      FilterField = "dispatcher"
	FieldJobType         FilterField = "job_type"
	FieldServiceResource FilterField = "service_resource"
	FieldAbsenceType     FilterField = "absence_type"
	FieldAppointmentType FilterField = "appointment_type"
	FieldRole            FilterField = "role"
)

// DateMode says whether a report has a date window, and whether the window
// can apply to either the created or the scheduled date.
type DateMode string

const (
	DateNone   DateMode = "none"
	DateSingle DateMode = "single"
	DateDual   DateMode = "dual"
)

// DateType picks which date a dual-mode window applies to.
type DateType string

const (
	DateCreated  DateType = "created"
	DateSchedule DateType = "schedule"
)

func ParseDateType(s string) (DateType, bool) {
	switch DateType(s) {
	case DateCreated, DateSchedule:
		return DateType(s), true
	}
	return "", false
}

// StaleOn selects which edits mark a loaded report as deprecated.
type StaleOn uint8

const (
	StaleOnDates StaleOn = 1 << iota
	StaleOnDateType
)

func (s StaleOn) Has(flag StaleOn) bool {
	return s&flag != 0
}

func (s StaleOn) MarshalJSON() ([]byte, error) {
	out := []string{}
	if s.Has(StaleOnDates) {
		out = append(out, "dates")
	}
	if s.Has(StaleOnDateType) {
		out = append(out, "date_type")
	}
	return json.Marshal(out)
}

// Config describes one report page. A single View implementation is
// instantiated from it for every entity type.
type Config struct {
	Name                 Name                       `json:"name"`
	Title                string                     `json:"title"`
	Endpoint             string                     `json:"-"`
	RowsKey              string                     `json:"-"`
	FilterFields         []FilterField              `json:"filter_fields"`
	Tags                 bool                       `json:"tags"`
	DateMode             DateMode                   `json:"date_mode"`
	DefaultPreset        daterange.Preset           `json:"default_preset,omitempty"`
	DefaultSort          pagination.Sort            `json:"default_sort"`
	SortDefaultDirection pagination.Direction       `json:"sort_default_direction"`
	StaleOn              StaleOn                    `json:"stale_on"`
	Columns              []string                   `json:"columns,omitempty"`
	DeselectPolicy       filterwords.DeselectPolicy `json:"deselect_policy"`
	PageSize             int                        `json:"page_size"`
	Roles                []string                   `json:"roles,omitempty"` // Any of these may mount the report; empty means everyone
}

func (c *Config) HasFilter(field FilterField) bool {
	return slices.Contains(c.FilterFields, field)
}

// AllowedFor reports whether a user holding roles may mount the report.
func (c *Config) AllowedFor(roles []string) bool {
	if len(c.Roles) == 0 {
		return true
	}
	for _, r := range roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

// InterfaceMeta is the "interface" block of a report response.
type InterfaceMeta struct {
	FilterWords map[string][]string `json:"filter_words"`
	TagWords    []string            `json:"tag_words,omitempty"`
	MaxPages    int                 `json:"max_pages"`
	RowsStart   int                 `json:"rows_start"`
	RowsEnd     int                 `json:"rows_end"`
	RowsAll     int                 `json:"rows_all"`
	MinDate     *time.Time          `json:"min_date,omitempty"`
	MaxDate     *time.Time          `json:"max_date,omitempty"`
}

// Result is one fetched page of a report.
type Result struct {
	Rows        []map[string]any `json:"rows"`
	Interface   InterfaceMeta    `json:"interface"`
	Permissions map[string]any   `json:"permissions,omitempty"`
	Dashboard   map[string]any   `json:"dashboard,omitempty"`
	FetchedAt   time.Time        `json:"fetched_at"`
}

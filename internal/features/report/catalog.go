package report

import (
	"go-dashboard/internal/daterange"
	"go-dashboard/internal/filterwords"
	"go-dashboard/internal/pagination"
)

var catalog = []*Config{
	{
		Name:     Calls,
		Title:    "Calls",
		Endpoint: "calls/report",
		RowsKey:  "calls",
		FilterFields: []FilterField{
			FieldCallType, FieldCallStatus, FieldSource, FieldArea, FieldDispatcher,
		},
		DateMode:             DateSingle,
		DefaultPreset:        daterange.Today,
		DefaultSort:          pagination.Sort{Field: "created_at", Direction: pagination.Down},
		SortDefaultDirection: pagination.Down,
		StaleOn:              StaleOnDates,
		Columns: []string{
			"created_at", "call_type", "call_status", "caller_name", "from_number", "to_number",
			"area", "source", "dispatcher", "duration",
		},
	},
	{
		Name:     Jobs,
		Title:    "Jobs",
		Endpoint: "jobs/report",
		RowsKey:  "jobs",
		FilterFields: []FilterField{
			FieldJobType, FieldStatus, FieldServiceResource, FieldArea, FieldSource,
		},
		Tags:                 true,
		DateMode:             DateDual,
		DefaultPreset:        daterange.Today,
		DefaultSort:          pagination.Sort{Field: "created_at", Direction: pagination.Down},
		SortDefaultDirection: pagination.Down,
		StaleOn:              StaleOnDates | StaleOnDateType,
		Columns: []string{
			"job_number", "created_at", "scheduled_at", "job_type", "status", "client_name",
			"service_resource", "area", "source", "total", "paid",
		},
	},
	{
		Name:                 Clients,
		Title:                "Clients",
		Endpoint:             "clients/report",
		RowsKey:              "clients",
		FilterFields:         []FilterField{FieldArea, FieldSource},
		Tags:                 true,
		DateMode:             DateNone,
		DefaultSort:          pagination.Sort{Field: "name", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		Columns: []string{
			"name", "company", "main_phone", "email", "area", "source", "jobs", "total",
		},
	},
	{
		Name:                 Absences,
		Title:                "Absences",
		Endpoint:             "absences/report",
		RowsKey:              "absences",
		FilterFields:         []FilterField{FieldServiceResource, FieldAbsenceType},
		DateMode:             DateSingle,
		DefaultPreset:        daterange.ThisMonth,
		DefaultSort:          pagination.Sort{Field: "date_start", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		DeselectPolicy:       filterwords.DeselectNoop,
		Columns:              []string{"service_resource", "absence_type", "date_start", "date_end", "comment"},
	},
	{
		Name:     Appointments,
		Title:    "Appointments",
		Endpoint: "appointments/report",
		RowsKey:  "appointments",
		FilterFields: []FilterField{
			FieldAppointmentType, FieldStatus, FieldServiceResource, FieldArea,
		},
		DateMode:             DateDual,
		DefaultPreset:        daterange.TomorrowAndNext,
		DefaultSort:          pagination.Sort{Field: "scheduled_at", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		StaleOn:              StaleOnDates,
		Columns: []string{
			"scheduled_at", "appointment_type", "status", "client_name", "service_resource", "area",
		},
	},
	{
		Name:                 PhoneNumbers,
		Title:                "Phone numbers",
		Endpoint:             "phone-numbers/report",
		RowsKey:              "phone_numbers",
		FilterFields:         []FilterField{FieldSource, FieldArea},
		DateMode:             DateNone,
		DefaultSort:          pagination.Sort{Field: "phone", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		Columns:              []string{"phone", "friendly_name", "source", "area", "available"},
	},
	{
		Name:                 Dispatchers,
		Title:                "Dispatchers",
		Endpoint:             "dispatchers/report",
		RowsKey:              "dispatchers",
		FilterFields:         []FilterField{FieldStatus},
		DateMode:             DateNone,
		DefaultSort:          pagination.Sort{Field: "name", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		Columns:              []string{"name", "phone", "email", "status"},
	},
	{
		Name:                 Users,
		Title:                "Users",
		Endpoint:             "users/report",
		RowsKey:              "users",
		FilterFields:         []FilterField{FieldStatus, FieldRole},
		DateMode:             DateNone,
		DefaultSort:          pagination.Sort{Field: "name", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		Columns:              []string{"name", "email", "phone", "role", "status", "last_login"},
		Roles:                []string{"admin", "owner"},
	},
	{
		Name:                 Permissions,
		Title:                "Permissions",
		Endpoint:             "permissions/report",
		RowsKey:              "permissions",
		DateMode:             DateNone,
		DefaultSort:          pagination.Sort{Field: "name", Direction: pagination.Up},
		SortDefaultDirection: pagination.Up,
		Columns:              []string{"name", "description", "users"},
		Roles:                []string{"admin", "owner"},
	},
}

// Catalog returns every report the dashboard can mount.
func Catalog() []*Config {
	out := make([]*Config, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(name Name) (*Config, error) {
	for _, c := range catalog {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrUnknownReport
}

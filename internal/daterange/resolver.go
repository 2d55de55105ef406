package daterange

import (
	"time"

	"github.com/jinzhu/now"
)

// Range is a closed [Min, Max] window. Min is start-of-day aligned and Max is
// end-of-day aligned (23:59:59.999) in the location it was resolved in.
type Range struct {
	Min time.Time `json:"min_date"`
	Max time.Time `json:"max_date"`
}

var (
	sundayWeeks = &now.Config{WeekStartDay: time.Sunday}
	mondayWeeks = &now.Config{WeekStartDay: time.Monday}
)

// Resolve maps a preset to concrete bounds anchored to now in loc.
// Custom, All and unknown presets pass current through, day-normalized.
func Resolve(preset Preset, current Range, at time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	today := StartOfDay(at, loc)

	switch preset {
	case Today:
		return day(today)
	case Yesterday:
		return day(today.AddDate(0, 0, -1))
	case Tomorrow:
		return day(today.AddDate(0, 0, 1))
	case TomorrowAndNext:
		tomorrow := today.AddDate(0, 0, 1)
		end := EndOfDay(tomorrow, loc)
		if !current.Max.IsZero() {
			if existing := EndOfDay(current.Max, loc); existing.After(end) {
				end = existing
			}
		}
		return Range{Min: tomorrow, Max: end}
	case Last7Days:
		return Range{Min: today.AddDate(0, 0, -6), Max: EndOfDay(today, loc)}
	case Last14Days:
		return Range{Min: today.AddDate(0, 0, -13), Max: EndOfDay(today, loc)}
	case Last30Days:
		return Range{Min: today.AddDate(0, 0, -29), Max: EndOfDay(today, loc)}
	case ThisMonth:
		n := sundayWeeks.With(today)
		return Range{Min: n.BeginningOfMonth(), Max: EndOfDay(n.EndOfMonth(), loc)}
	case LastMonth:
		n := sundayWeeks.With(sundayWeeks.With(today).BeginningOfMonth().AddDate(0, 0, -1))
		return Range{Min: n.BeginningOfMonth(), Max: EndOfDay(n.EndOfMonth(), loc)}
	case ThisWeekSunToday:
		return Range{Min: sundayWeeks.With(today).BeginningOfWeek(), Max: EndOfDay(today, loc)}
	case ThisWeekMonToday:
		return Range{Min: mondayWeeks.With(today).BeginningOfWeek(), Max: EndOfDay(today, loc)}
	case LastWeekSunSat:
		start := sundayWeeks.With(today.AddDate(0, 0, -7)).BeginningOfWeek()
		return Range{Min: start, Max: EndOfDay(start.AddDate(0, 0, 6), loc)}
	case LastWeekMonSun:
		start := mondayWeeks.With(today.AddDate(0, 0, -7)).BeginningOfWeek()
		return Range{Min: start, Max: EndOfDay(start.AddDate(0, 0, 6), loc)}
	case LastBusinessWeek:
		start := mondayWeeks.With(today.AddDate(0, 0, -7)).BeginningOfWeek()
		return Range{Min: start, Max: EndOfDay(start.AddDate(0, 0, 4), loc)}
	}

	return Normalize(current, loc)
}

// Normalize aligns Min to start-of-day and Max to end-of-day in loc.
// Zero bounds stay zero.
func Normalize(r Range, loc *time.Location) Range {
	out := Range{}
	if !r.Min.IsZero() {
		out.Min = StartOfDay(r.Min, loc)
	}
	if !r.Max.IsZero() {
		out.Max = EndOfDay(r.Max, loc)
	}
	return out
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return now.With(t.In(loc)).BeginningOfDay()
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}

func day(start time.Time) Range {
	return Range{Min: start, Max: EndOfDay(start, start.Location())}
}

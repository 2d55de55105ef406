package daterange

// Preset is a named date-range shortcut resolved against "now" in the user's time zone.
type Preset string

const (
	All              Preset = "all"
	Custom           Preset = "custom"
	Last7Days        Preset = "last_7_days"
	Last14Days       Preset = "last_14_days"
	Last30Days       Preset = "last_30_days"
	LastBusinessWeek Preset = "last_business_week"
	LastMonth        Preset = "last_month"
	ThisMonth        Preset = "this_month"
	ThisWeekMonToday Preset = "this_week_mon_today"
	ThisWeekSunToday Preset = "this_week_sun_today"
	Today            Preset = "today"
	Tomorrow         Preset = "tomorrow"
	TomorrowAndNext  Preset = "tomorrow_and_next"
	Yesterday        Preset = "yesterday"
	LastWeekSunSat   Preset = "last_week_sun_sat"
	LastWeekMonSun   Preset = "last_week_mon_sun"
)

var presets = []Preset{
	All,
	Custom,
	Last7Days,
	Last14Days,
	Last30Days,
	LastBusinessWeek,
	LastMonth,
	ThisMonth,
	ThisWeekMonToday,
	ThisWeekSunToday,
	Today,
	Tomorrow,
	TomorrowAndNext,
	Yesterday,
	LastWeekSunSat,
	LastWeekMonSun,
}

// Presets returns every known preset in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// ParsePreset reports whether s names a known preset.
func ParsePreset(s string) (Preset, bool) {
	for _, p := range presets {
		if string(p) == s {
			return p, true
		}
	}
	return Custom, false
}

// Relative reports whether the preset is recomputed from "now" rather than
// passing the current bounds through.
func (p Preset) Relative() bool {
	switch p {
	case All, Custom:
		return false
	}
	_, known := ParsePreset(string(p))
	return known
}

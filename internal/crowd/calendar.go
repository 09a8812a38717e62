// Package crowd estimates visitor density for a ski resort from the calendar
// and daily weather. Levels are heuristic estimates on a 1 (very light) to
// 5 (very busy) ordinal scale, not measured occupancy.
package crowd

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"slopescout/internal/types"
)

//go:embed data/holidays.json
var holidayFS embed.FS

// Base crowd levels for non-holiday dates.
const (
	baseLevelWeekend = 4
	baseLevelFriday  = 3
	baseLevelWeekday = 2
)

// Holiday is one configured holiday date with its crowd impact (1-5).
type Holiday struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Name   string `json:"name"`
	Impact int    `json:"crowdImpact"`
}

// Calendar is a read-only date lookup for a single season's holiday table.
// Holiday classification always wins over weekday/weekend derivation.
type Calendar struct {
	byDate map[string]Holiday
}

// NewCalendar loads the embedded holiday table for the given season key
// (e.g. "2025-2026"). An unknown season is an error: estimating crowds
// without holiday awareness would silently understate peak dates.
func NewCalendar(season string) (*Calendar, error) {
	raw, err := holidayFS.ReadFile("data/holidays.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded holiday table: %w", err)
	}

	var seasons map[string][]Holiday
	if err := json.Unmarshal(raw, &seasons); err != nil {
		return nil, fmt.Errorf("parsing holiday table: %w", err)
	}

	entries, ok := seasons[season]
	if !ok {
		return nil, fmt.Errorf("no holiday table for season %q", season)
	}
	return NewCalendarFromEntries(entries), nil
}

// NewCalendarFromEntries builds a Calendar from explicit entries. Used by
// tests and by callers that source the table elsewhere.
func NewCalendarFromEntries(entries []Holiday) *Calendar {
	byDate := make(map[string]Holiday, len(entries))
	for _, h := range entries {
		byDate[h.Date] = h
	}
	return &Calendar{byDate: byDate}
}

// Holiday returns the holiday entry for the date, if configured.
func (c *Calendar) Holiday(date string) (Holiday, bool) {
	h, ok := c.byDate[date]
	return h, ok
}

// ClassifyDay determines the day type and base crowd level for a date.
// Holidays take the table's configured impact; otherwise Saturday/Sunday is
// a weekend at level 4, Friday a weekday at level 3, and any other day a
// weekday at level 2. Pure function of the date.
//
// An unparseable date classifies as an ordinary weekday rather than failing:
// the estimator is total over its inputs.
func (c *Calendar) ClassifyDay(date string) (int, types.DayType) {
	if h, ok := c.byDate[date]; ok {
		return h.Impact, types.DayTypeHoliday
	}

	d, err := time.Parse(types.ISODate, date)
	if err != nil {
		return baseLevelWeekday, types.DayTypeWeekday
	}

	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return baseLevelWeekend, types.DayTypeWeekend
	case time.Friday:
		return baseLevelFriday, types.DayTypeWeekday
	default:
		return baseLevelWeekday, types.DayTypeWeekday
	}
}

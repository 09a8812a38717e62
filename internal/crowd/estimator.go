package crowd

import (
	"fmt"

	"slopescout/internal/types"
)

// Operating hours covered by the hourly breakdown.
const (
	firstHour = 7
	lastHour  = 17
)

// powderThresholdCM is the fresh snowfall above which a day draws an extra
// level of visitors.
const powderThresholdCM = 15.0

// hourBand applies a fixed offset to the day's adjusted level for an
// inclusive range of hours. Bands are evaluated in order; the hourly shape
// is the ordered union of all bands over hours 7..17.
type hourBand struct {
	From, To int
	Offset   int
}

// hourShape models the typical resort day: a quiet first chair, the
// mid-morning rush, a lunchtime plateau, and an afternoon taper.
var hourShape = []hourBand{
	{From: 7, To: 8, Offset: -1},
	{From: 9, To: 11, Offset: +1},
	{From: 12, To: 13, Offset: 0},
	{From: 14, To: 15, Offset: -1},
	{From: 16, To: 17, Offset: -2},
}

// Estimator produces per-date crowd estimates from the holiday calendar and
// daily weather. It is stateless beyond the calendar and safe for concurrent
// use.
type Estimator struct {
	calendar *Calendar
}

// NewEstimator creates an Estimator over the given calendar.
func NewEstimator(calendar *Calendar) *Estimator {
	return &Estimator{calendar: calendar}
}

// Estimate returns one DailyCrowd per input date, order preserved. Weather
// is optional: dates without a matching record use the calendar-derived
// level alone. A powder day (snowfall above 15cm) bumps the level by one,
// clamped to [1,5].
func (e *Estimator) Estimate(dates []string, weatherByDate map[string]types.DailyWeather) []types.DailyCrowd {
	out := make([]types.DailyCrowd, 0, len(dates))

	for _, date := range dates {
		level, dayType := e.calendar.ClassifyDay(date)
		holiday, isHoliday := e.calendar.Holiday(date)

		if w, ok := weatherByDate[date]; ok && w.SnowfallSum > powderThresholdCM {
			level = clampLevel(level + 1)
		}

		hourly := buildHourlyBreakdown(level)

		dc := types.DailyCrowd{
			Date:            date,
			DayType:         dayType,
			OverallLevel:    level,
			HourlyBreakdown: hourly,
			PeakHours:       peakHours(hourly),
			BestArrivalTime: bestArrivalTime(hourly),
		}
		if isHoliday {
			dc.HolidayName = holiday.Name
		}
		out = append(out, dc)
	}

	return out
}

// buildHourlyBreakdown applies the hour-shape offsets to the adjusted level,
// clamping each hour to [1,5]. Exactly 11 entries, hours 7..17 ascending.
func buildHourlyBreakdown(level int) []types.HourlyCrowd {
	hours := make([]types.HourlyCrowd, 0, lastHour-firstHour+1)
	for hour := firstHour; hour <= lastHour; hour++ {
		hours = append(hours, types.HourlyCrowd{
			Hour:       hour,
			CrowdLevel: clampLevel(level + offsetForHour(hour)),
			Source:     types.CrowdSourceHeuristic,
		})
	}
	return hours
}

func offsetForHour(hour int) int {
	for _, band := range hourShape {
		if hour >= band.From && hour <= band.To {
			return band.Offset
		}
	}
	return 0
}

// peakHours renders the contiguous hour range achieving the maximum hourly
// level, from the first peak hour to one past the last, on a 12-hour clock
// with noon rendered "12pm".
func peakHours(hourly []types.HourlyCrowd) string {
	maxLevel := 0
	for _, h := range hourly {
		if h.CrowdLevel > maxLevel {
			maxLevel = h.CrowdLevel
		}
	}

	start, end := 9, 12
	first := true
	for _, h := range hourly {
		if h.CrowdLevel != maxLevel {
			continue
		}
		if first {
			start = h.Hour
			first = false
		}
		end = h.Hour + 1
	}

	return fmt.Sprintf("%s - %s", formatHour(start), formatHour(end))
}

// bestArrivalTime scans hours ascending for the first pre-9am hour at level
// 2 or lighter, recommending arrival before the half-hour after it. Busy
// mornings fall back to the earliest sensible arrival.
func bestArrivalTime(hourly []types.HourlyCrowd) string {
	for _, h := range hourly {
		if h.CrowdLevel <= 2 && h.Hour < 9 {
			return fmt.Sprintf("Before %d:30am", h.Hour+1)
		}
	}
	return "Before 8:30am"
}

func formatHour(h int) string {
	switch {
	case h == 12:
		return "12pm"
	case h > 12:
		return fmt.Sprintf("%dpm", h-12)
	default:
		return fmt.Sprintf("%dam", h)
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}

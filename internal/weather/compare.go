package weather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"slopescout/internal/types"
)

// verdictBoundaryPct is the snowfall deviation beyond which a day (or trip)
// stops being "average". Exactly 15% is still average.
const verdictBoundaryPct = 15.0

// Confidence lead-time boundaries, in days from today to the forecast date.
const (
	highConfidenceDays   = 7
	mediumConfidenceDays = 14
)

// Compare aligns a forecast series against an averaged historical series
// and produces per-day deltas, verdicts, and a trip-level summary.
//
// Forecast days with no historical counterpart are skipped silently:
// asymmetric coverage is tolerated, not an error. sampleYears is the number
// of archive years that survived aggregation and is attached to every
// compared day. now anchors the confidence tiers and is injected so tests
// are deterministic.
func Compare(forecast []types.DailyWeather, historical []types.DailyWeather, sampleYears int, now time.Time) types.TripComparison {
	byDate := make(map[string]types.DailyWeather, len(historical))
	for _, h := range historical {
		byDate[dateKey(h.Date)] = h
	}

	var (
		daily               []types.ComparisonResult
		totalForecastSnow   float64
		totalHistoricalSnow float64
		totalTempDiff       float64
		maxSnowDate         string
		maxSnowAmount       = -1.0
	)

	for _, f := range forecast {
		h, ok := byDate[dateKey(f.Date)]
		if !ok {
			continue
		}

		forecastAvgTemp := (f.TempMin + f.TempMax) / 2
		// The historical record is already an average of averages; its
		// min/max midpoint is the series mean.
		historicalAvgTemp := (h.TempMin + h.TempMax) / 2

		snowfallDelta := f.SnowfallSum - h.SnowfallSum
		snowfallPct := 0.0
		if h.SnowfallSum > 0 {
			snowfallPct = snowfallDelta / h.SnowfallSum * 100
		}
		tempDelta := forecastAvgTemp - historicalAvgTemp

		daily = append(daily, types.ComparisonResult{
			Date: f.Date,
			Forecast: types.SnapshotPair{
				Snowfall: f.SnowfallSum,
				TempAvg:  forecastAvgTemp,
			},
			Historical: types.HistoricalSnapshot{
				Snowfall:    h.SnowfallSum,
				TempAvg:     historicalAvgTemp,
				SampleYears: sampleYears,
			},
			Delta: types.ComparisonDelta{
				Snowfall:    snowfallDelta,
				SnowfallPct: snowfallPct,
				Temp:        tempDelta,
			},
			Verdict:    dayVerdict(snowfallPct),
			Confidence: confidenceFor(f.Date, now),
		})

		totalForecastSnow += f.SnowfallSum
		totalHistoricalSnow += h.SnowfallSum
		totalTempDiff += tempDelta

		if f.SnowfallSum > maxSnowAmount {
			maxSnowAmount = f.SnowfallSum
			maxSnowDate = f.Date
		}
	}

	return types.TripComparison{
		Daily: daily,
		Summary: buildSummary(daily, totalForecastSnow, totalHistoricalSnow,
			totalTempDiff, maxSnowDate),
	}
}

// dayVerdict classifies a single day's snowfall deviation.
func dayVerdict(snowfallPct float64) types.Verdict {
	switch {
	case snowfallPct > verdictBoundaryPct:
		return types.VerdictAboveAvg
	case snowfallPct < -verdictBoundaryPct:
		return types.VerdictBelowAvg
	default:
		return types.VerdictAverage
	}
}

// confidenceFor buckets a forecast date by its lead time from now. The
// anchor is days-from-today to the forecast date, not days to trip start.
func confidenceFor(date string, now time.Time) types.Confidence {
	d, err := time.Parse(types.ISODate, date)
	if err != nil {
		return types.ConfidenceLow
	}
	daysOut := int(math.Ceil(d.Sub(now).Hours() / 24))
	switch {
	case daysOut <= highConfidenceDays:
		return types.ConfidenceHigh
	case daysOut <= mediumConfidenceDays:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func buildSummary(daily []types.ComparisonResult, totalForecastSnow, totalHistoricalSnow, totalTempDiff float64, maxSnowDate string) types.TripSummary {
	avgTempDiff := 0.0
	if len(daily) > 0 {
		avgTempDiff = totalTempDiff / float64(len(daily))
	}

	snowDiffPct := 0.0
	if totalHistoricalSnow > 0 {
		snowDiffPct = (totalForecastSnow - totalHistoricalSnow) / totalHistoricalSnow * 100
	}

	snowfallVerdict := "Typical snowfall"
	if snowDiffPct > verdictBoundaryPct {
		snowfallVerdict = fmt.Sprintf("%d%% above average", int(math.Round(snowDiffPct)))
	} else if snowDiffPct < -verdictBoundaryPct {
		snowfallVerdict = fmt.Sprintf("%d%% below average", int(math.Abs(math.Round(snowDiffPct))))
	}

	tempVerdict := "About average temperature"
	if math.Abs(avgTempDiff) >= 1 {
		direction := "warmer"
		if avgTempDiff < 0 {
			direction = "colder"
		}
		tempVerdict = fmt.Sprintf("%.1f°C %s than usual", math.Abs(avgTempDiff), direction)
	}

	bestDay := "No heavy snow expected"
	if maxSnowDate != "" {
		if d, err := time.Parse(types.ISODate, maxSnowDate); err == nil {
			bestDay = fmt.Sprintf("%s looks best", d.Weekday())
		}
	}

	caption := fmt.Sprintf(
		"Your trip dates historically see %dcm of snow, but this year's forecast shows %dcm — %s conditions. Temperatures will be %s.",
		int(math.Round(totalHistoricalSnow)),
		int(math.Round(totalForecastSnow)),
		strings.ToLower(snowfallVerdict),
		strings.ToLower(tempVerdict),
	)

	return types.TripSummary{
		TotalForecastSnow:   totalForecastSnow,
		TotalHistoricalSnow: totalHistoricalSnow,
		SnowfallVerdict:     snowfallVerdict,
		TempVerdict:         tempVerdict,
		BestDay:             bestDay,
		Caption:             caption,
	}
}

// dateKey normalizes a date string to its YYYY-MM-DD prefix so that
// timestamped dates from mixed sources still align.
func dateKey(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

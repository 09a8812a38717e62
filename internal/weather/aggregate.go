// Package weather implements the historical aggregation and the
// forecast-vs-historical comparison engine.
package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"slopescout/internal/types"
)

// DefaultSampleYears is how many completed years the aggregator samples.
const DefaultSampleYears = 5

// wetDayThresholdMM is the daily precipitation above which a sampled day
// counts toward the derived precipitation probability. The archive has no
// probability column, so it is reconstructed from observed wet days.
const wetDayThresholdMM = 0.1

// ArchiveFetcher fetches one contiguous span of historical daily records.
// Implemented by the Open-Meteo archive client; swapped for a double in tests.
type ArchiveFetcher interface {
	Archive(ctx context.Context, lat, lon float64, start, end string) ([]types.DailyWeather, error)
}

// HistoricalSeries is the aggregation result: one averaged record per trip
// day, dated in the original trip year, plus the number of archive years
// that actually contributed.
type HistoricalSeries struct {
	Days        []types.DailyWeather
	SampleYears int
}

// Aggregator averages the same calendar span across the most recently
// completed years. Per-year fetches run concurrently and fail
// independently; failed years are excluded from the averages, never
// zero-filled.
type Aggregator struct {
	fetcher ArchiveFetcher
	years   int
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator sampling the given number of years
// (DefaultSampleYears if years <= 0).
func NewAggregator(fetcher ArchiveFetcher, years int, logger *slog.Logger) *Aggregator {
	if years <= 0 {
		years = DefaultSampleYears
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{fetcher: fetcher, years: years, logger: logger}
}

// Aggregate fetches the trip's month/day span for each of the N most
// recently completed years relative to the trip year (tripYear-1 ..
// tripYear-N) and averages the surviving years per offset day. Output dates
// are reconstructed against the original trip year.
//
// Partial failure is tolerated: any year whose fetch fails is logged and
// excluded. Only when every year fails does Aggregate return an error, with
// code no_historical_data.
func (a *Aggregator) Aggregate(ctx context.Context, lat, lon float64, tripStart, tripEnd string) (*HistoricalSeries, error) {
	if err := types.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	start, end, err := types.ParseDateRange(tripStart, tripEnd)
	if err != nil {
		return nil, err
	}

	duration := int(end.Sub(start).Hours()/24) + 1
	tripYear := start.Year()

	// One result slot per year, most recent year first. Each goroutine
	// writes only its own slot, so no lock is needed.
	perYear := make([][]types.DailyWeather, a.years)
	perYearErr := make([]error, a.years)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < a.years; i++ {
		year := tripYear - (i + 1)
		slot := i

		g.Go(func() error {
			yStart := shiftToYear(start, year)
			yEnd := shiftToYear(end, year)

			days, fetchErr := a.fetcher.Archive(gctx, lat, lon,
				yStart.Format(types.ISODate), yEnd.Format(types.ISODate))
			if fetchErr != nil {
				// Capture the failure and keep the other years going.
				perYearErr[slot] = fetchErr
				a.logger.WarnContext(gctx, "historical year fetch failed",
					"year", year,
					"error", fetchErr,
				)
				return nil
			}
			perYear[slot] = days
			return nil
		})
	}
	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	surviving := 0
	var lastErr error
	for i := range perYear {
		if perYearErr[i] != nil {
			lastErr = perYearErr[i]
			continue
		}
		surviving++
	}
	if surviving == 0 {
		return nil, types.NewAppError(types.ErrCodeNoHistoricalData,
			fmt.Sprintf("all %d sampled years failed", a.years), lastErr)
	}

	days := make([]types.DailyWeather, 0, duration)
	for offset := 0; offset < duration; offset++ {
		days = append(days, a.averageOffset(perYear, start, offset))
	}

	return &HistoricalSeries{Days: days, SampleYears: surviving}, nil
}

// averageOffset averages one offset day across the years that returned data
// for that offset. Iteration runs most recent year first, which is also the
// tie-break order for the weather-code mode.
func (a *Aggregator) averageOffset(perYear [][]types.DailyWeather, start time.Time, offset int) types.DailyWeather {
	var (
		tempMaxSum, tempMinSum  float64
		snowSum, precipSum      float64
		windSum                 float64
		contributing, wetDays   int
		codeCounts              = map[int]int{}
		modeCode, modeCodeCount int
	)

	for _, yearDays := range perYear {
		if offset >= len(yearDays) {
			// Failed year (nil) or a span shortened by the provider.
			continue
		}
		d := yearDays[offset]

		tempMaxSum += d.TempMax
		tempMinSum += d.TempMin
		snowSum += d.SnowfallSum
		precipSum += d.PrecipitationSum
		windSum += d.WindSpeedMax
		contributing++

		if d.PrecipitationSum > wetDayThresholdMM {
			wetDays++
		}
		codeCounts[d.WeatherCode]++
		if codeCounts[d.WeatherCode] > modeCodeCount {
			modeCodeCount = codeCounts[d.WeatherCode]
			modeCode = d.WeatherCode
		}
	}

	date := start.AddDate(0, 0, offset).Format(types.ISODate)
	if contributing == 0 {
		// Every surviving year came back short of this offset. Emit a
		// zero record rather than fabricating values.
		return types.DailyWeather{Date: date}
	}

	n := float64(contributing)
	return types.DailyWeather{
		Date:                     date,
		TempMax:                  round1(tempMaxSum / n),
		TempMin:                  round1(tempMinSum / n),
		SnowfallSum:              round1(snowSum / n),
		PrecipitationSum:         round1(precipSum / n),
		PrecipitationProbability: math.Round(float64(wetDays) / n * 100),
		WeatherCode:              modeCode,
		WindSpeedMax:             round1(windSum / n),
		// The archive has no UV column; downstream consumers treat 0 as absent.
	}
}

// shiftToYear moves a date to the same month/day in another year. Feb 29
// shifted into a non-leap year normalizes forward to Mar 1.
func shiftToYear(d time.Time, year int) time.Time {
	return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

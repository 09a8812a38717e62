// Package trips orchestrates weather fetches, scoring, and comparison into
// the trip-facing operations the API serves.
package trips

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"slopescout/internal/conditions"
	"slopescout/internal/external"
	"slopescout/internal/resorts"
	"slopescout/internal/types"
	"slopescout/internal/weather"
)

// MaxForecastDays caps an outlook at the provider's forecast horizon.
const MaxForecastDays = 16

// recentContextDays is how many observed days feed the surface-condition
// context ahead of each forecast day.
const recentContextDays = 2

// WeatherProvider is the slice of the weather client this service needs.
type WeatherProvider interface {
	Forecast(ctx context.Context, lat, lon float64, start, end string) (*external.ForecastResult, error)
	Archive(ctx context.Context, lat, lon float64, start, end string) ([]types.DailyWeather, error)
}

// HistoricalAggregator produces multi-year averaged weather for a date range.
type HistoricalAggregator interface {
	Aggregate(ctx context.Context, lat, lon float64, tripStart, tripEnd string) (*weather.HistoricalSeries, error)
}

// DayOutlook is one day of a conditions outlook: the forecast plus the
// derived ridability score and best-window recommendation.
type DayOutlook struct {
	Date       string             `json:"date"`
	Weather    types.DailyWeather `json:"weather"`
	Ridability types.Ridability   `json:"ridability"`
	BestWindow types.BestWindow   `json:"bestWindow"`
	Notes      []string           `json:"notes,omitempty"`
}

// Outlook is the full conditions outlook for a resort.
type Outlook struct {
	Resort resorts.Resort      `json:"resort"`
	Days   int                 `json:"days"`
	Data   []DayOutlook        `json:"data"`
	Recent types.RecentWeather `json:"recent"`
}

// Service wires the resort catalog, weather provider, and aggregator into
// the trip-level operations.
type Service struct {
	catalog    *resorts.Catalog
	provider   WeatherProvider
	aggregator HistoricalAggregator
	logger     *slog.Logger
	now        func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a trip service.
func NewService(catalog *resorts.Catalog, provider WeatherProvider, aggregator HistoricalAggregator, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		catalog:    catalog,
		provider:   provider,
		aggregator: aggregator,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConditionsOutlook builds a per-day outlook for the next `days` days at a
// resort: forecast weather, a ridability score with rule reasons, and a
// best-window recommendation. Observed history for the two prior days feeds
// each day's surface context; losing it degrades the context to zeros rather
// than failing the request. A forecast failure is fatal.
func (s *Service) ConditionsOutlook(ctx context.Context, resortID string, days int) (*Outlook, error) {
	resort, err := s.catalog.Get(resortID)
	if err != nil {
		return nil, err
	}

	if days <= 0 || days > MaxForecastDays {
		days = MaxForecastDays
	}

	today := s.now().UTC()
	historyStart := today.AddDate(0, 0, -recentContextDays).Format(types.ISODate)
	historyEnd := today.AddDate(0, 0, -1).Format(types.ISODate)
	forecastStart := today.Format(types.ISODate)
	forecastEnd := today.AddDate(0, 0, days-1).Format(types.ISODate)

	var history []types.DailyWeather
	var forecast *external.ForecastResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.provider.Archive(gctx, resort.Lat, resort.Lon, historyStart, historyEnd)
		if err != nil {
			s.logger.WarnContext(gctx, "recent history unavailable; outlook context degraded",
				"resort_id", resort.ID,
				"error", err,
			)
			return nil
		}
		history = h
		return nil
	})
	g.Go(func() error {
		f, err := s.provider.Forecast(gctx, resort.Lat, resort.Lon, forecastStart, forecastEnd)
		if err != nil {
			return err
		}
		forecast = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := append(append([]types.DailyWeather{}, history...), forecast.Weather...)

	// "Today" in the resort's timezone, derived from the provider's UTC
	// offset rather than a timezone database lookup.
	resortNow := s.now().UTC().Add(time.Duration(forecast.UTCOffsetSeconds) * time.Second)
	todayStr := resortNow.Format(types.ISODate)

	todayIdx, dateMismatch := locateToday(all, todayStr)

	data := make([]DayOutlook, 0, days)
	for i := 0; i < days; i++ {
		idx := todayIdx + i
		if idx < 0 || idx >= len(all) {
			continue
		}
		day := all[idx]

		recent := recentContext(all, idx)
		out := DayOutlook{
			Date:       day.Date,
			Weather:    day,
			Ridability: conditions.ScoreRidability(day, recent, resort.Region),
			BestWindow: conditions.RecommendBestWindow(day, resort.Region),
		}
		if i == 0 && dateMismatch {
			out.Notes = []string{"Date mismatch: showing available data"}
		}
		data = append(data, out)
	}

	summary := types.RecentWeather{}
	if todayIdx >= recentContextDays {
		summary.SnowCM = all[todayIdx-1].SnowfallSum + all[todayIdx-2].SnowfallSum
	}

	return &Outlook{
		Resort: resort,
		Days:   len(data),
		Data:   data,
		Recent: summary,
	}, nil
}

// CompareTrip runs the forecast fetch and historical aggregation
// concurrently, then compares them day by day. Either upstream failure is
// fatal; the aggregator has already absorbed partial archive failures.
func (s *Service) CompareTrip(ctx context.Context, resortID, start, end string) (*types.TripComparison, error) {
	resort, err := s.catalog.Get(resortID)
	if err != nil {
		return nil, err
	}
	if _, _, err := types.ParseDateRange(start, end); err != nil {
		return nil, err
	}

	var forecast *external.ForecastResult
	var series *weather.HistoricalSeries

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.provider.Forecast(gctx, resort.Lat, resort.Lon, start, end)
		if err != nil {
			return err
		}
		forecast = f
		return nil
	})
	g.Go(func() error {
		h, err := s.aggregator.Aggregate(gctx, resort.Lat, resort.Lon, start, end)
		if err != nil {
			return err
		}
		series = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := weather.Compare(forecast.Weather, series.Days, series.SampleYears, s.now())
	return &comparison, nil
}

// locateToday finds the index of todayStr in the fused series. When the
// exact date is absent it falls back to the first later date, then to the
// start of the series, and reports the mismatch.
func locateToday(all []types.DailyWeather, todayStr string) (int, bool) {
	for i, w := range all {
		if w.Date == todayStr {
			return i, false
		}
	}
	if len(all) == 0 {
		return 0, false
	}
	for i, w := range all {
		if w.Date > todayStr {
			return i, true
		}
	}
	return 0, true
}

// recentContext summarizes the two entries before idx. Missing entries
// contribute zeros, matching the scorer's treatment of absent optionals.
func recentContext(all []types.DailyWeather, idx int) types.RecentWeather {
	var prev1, prev2 types.DailyWeather
	if idx-1 >= 0 {
		prev1 = all[idx-1]
	}
	if idx-2 >= 0 {
		prev2 = all[idx-2]
	}
	return types.RecentWeather{
		RainMM:  0,
		SnowCM:  prev1.SnowfallSum + prev2.SnowfallSum,
		TempMin: min(prev1.TempMin, prev2.TempMin),
		TempMax: max(prev1.TempMax, prev2.TempMax),
	}
}

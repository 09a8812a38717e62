package external

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slopescout/internal/types"
)

// Open-Meteo API defaults. Overridable in config for tests and proxies.
const (
	DefaultForecastBaseURL = "https://api.open-meteo.com"
	DefaultArchiveBaseURL  = "https://archive-api.open-meteo.com"
)

// Daily variable lists requested from the provider. The archive endpoint
// has no probability or UV columns; those are substituted downstream.
var (
	forecastDailyVars = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_sum",
		"snowfall_sum",
		"precipitation_probability_max",
		"weather_code",
		"wind_speed_10m_max",
		"uv_index_max",
	}
	archiveDailyVars = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_sum",
		"snowfall_sum",
		"weather_code",
		"wind_speed_10m_max",
	}
)

// ForecastResult is a reshaped forecast series plus the provider's timezone
// resolution for the queried coordinates.
type ForecastResult struct {
	Weather          []types.DailyWeather
	Timezone         string
	UTCOffsetSeconds int
}

// openMeteoResponse is the provider's column-oriented envelope. Columns may
// contain nulls; pointers preserve that so missing values default to zero.
type openMeteoResponse struct {
	Timezone         string      `json:"timezone"`
	UTCOffsetSeconds int         `json:"utc_offset_seconds"`
	Daily            dailySeries `json:"daily"`
}

type dailySeries struct {
	Time              []string   `json:"time"`
	TemperatureMax    []*float64 `json:"temperature_2m_max"`
	TemperatureMin    []*float64 `json:"temperature_2m_min"`
	PrecipitationSum  []*float64 `json:"precipitation_sum"`
	SnowfallSum       []*float64 `json:"snowfall_sum"`
	PrecipitationProb []*float64 `json:"precipitation_probability_max"`
	WeatherCode       []*int     `json:"weather_code"`
	WindSpeedMax      []*float64 `json:"wind_speed_10m_max"`
	UVIndexMax        []*float64 `json:"uv_index_max"`
}

// OpenMeteoClient talks to the Open-Meteo forecast and archive endpoints
// through the shared BaseClient resilience layer and reshapes the
// column-oriented daily series into row-oriented DailyWeather records.
type OpenMeteoClient struct {
	base        *BaseClient
	forecastURL string
	archiveURL  string
	logger      *slog.Logger
	now         func() time.Time
}

// OpenMeteoConfig holds construction parameters for OpenMeteoClient.
type OpenMeteoConfig struct {
	ForecastBaseURL string
	ArchiveBaseURL  string
	Logger          *slog.Logger
	Now             func() time.Time // test hook; defaults to time.Now
}

// NewOpenMeteoClient creates a client over the given http.Client. The
// http.Client's timeout is the only per-request deadline beyond the caller's
// context.
func NewOpenMeteoClient(httpClient *http.Client, cfg OpenMeteoConfig) *OpenMeteoClient {
	forecastURL := cfg.ForecastBaseURL
	if forecastURL == "" {
		forecastURL = DefaultForecastBaseURL
	}
	archiveURL := cfg.ArchiveBaseURL
	if archiveURL == "" {
		archiveURL = DefaultArchiveBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &OpenMeteoClient{
		base:        NewBaseClient(httpClient, "open-meteo", DefaultRetryPolicy(), "SlopeScout/1.0"),
		forecastURL: strings.TrimSuffix(forecastURL, "/"),
		archiveURL:  strings.TrimSuffix(archiveURL, "/"),
		logger:      logger,
		now:         now,
	}
}

// Forecast fetches the daily forecast series for an inclusive date range.
// Start dates in the past are rejected: the forecast endpoint serves the
// future, the archive serves the past.
func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lon float64, start, end string) (*ForecastResult, error) {
	today := c.now().UTC().Format(types.ISODate)
	if start < today {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidDates,
			fmt.Sprintf("forecast start %s is in the past; use the historical endpoint", start), nil)
	}

	resp, err := c.fetchDaily(ctx, c.forecastURL+"/v1/forecast", lat, lon, start, end, forecastDailyVars)
	if err != nil {
		return nil, err
	}

	return &ForecastResult{
		Weather:          reshapeDaily(resp.Daily),
		Timezone:         resp.Timezone,
		UTCOffsetSeconds: resp.UTCOffsetSeconds,
	}, nil
}

// Archive fetches observed history for an inclusive date range. The archive
// omits precipitation probability and UV; both come back as zero.
func (c *OpenMeteoClient) Archive(ctx context.Context, lat, lon float64, start, end string) ([]types.DailyWeather, error) {
	resp, err := c.fetchDaily(ctx, c.archiveURL+"/v1/archive", lat, lon, start, end, archiveDailyVars)
	if err != nil {
		return nil, err
	}
	return reshapeDaily(resp.Daily), nil
}

func (c *OpenMeteoClient) fetchDaily(ctx context.Context, endpoint string, lat, lon float64, start, end string, vars []string) (*openMeteoResponse, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("start_date", start)
	params.Set("end_date", end)
	params.Set("daily", strings.Join(vars, ","))
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"building weather request", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "weather provider returned non-200",
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			fmt.Sprintf("weather provider returned %d", resp.StatusCode), nil)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			"decoding weather provider response", err)
	}
	return &body, nil
}

// reshapeDaily converts the provider's column series into one record per
// date. Null or missing cells default to zero; the scoring layer treats
// zeros as absent optional values.
func reshapeDaily(d dailySeries) []types.DailyWeather {
	out := make([]types.DailyWeather, 0, len(d.Time))
	for i, date := range d.Time {
		out = append(out, types.DailyWeather{
			Date:                     date,
			TempMax:                  floatAt(d.TemperatureMax, i),
			TempMin:                  floatAt(d.TemperatureMin, i),
			PrecipitationSum:         floatAt(d.PrecipitationSum, i),
			SnowfallSum:              floatAt(d.SnowfallSum, i),
			PrecipitationProbability: floatAt(d.PrecipitationProb, i),
			WeatherCode:              intAt(d.WeatherCode, i),
			WindSpeedMax:             floatAt(d.WindSpeedMax, i),
			UVIndexMax:               floatAt(d.UVIndexMax, i),
		})
	}
	return out
}

func floatAt(col []*float64, i int) float64 {
	if i >= len(col) || col[i] == nil {
		return 0
	}
	return *col[i]
}

func intAt(col []*int, i int) int {
	if i >= len(col) || col[i] == nil {
		return 0
	}
	return *col[i]
}

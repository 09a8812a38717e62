package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"slopescout/internal/core"
	"slopescout/internal/external"
	"slopescout/internal/types"
	"slopescout/internal/weather"
)

// ForecastProvider fetches forecast weather for arbitrary coordinates.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lon float64, start, end string) (*external.ForecastResult, error)
}

// HistoricalProvider aggregates archive weather for arbitrary coordinates.
type HistoricalProvider interface {
	Aggregate(ctx context.Context, lat, lon float64, tripStart, tripEnd string) (*weather.HistoricalSeries, error)
}

// HistoricalWeatherResponse is the response body for
// GET /v1/weather/historical.
type HistoricalWeatherResponse struct {
	Weather     []types.DailyWeather `json:"weather"`
	SampleYears int                  `json:"sampleYears"`
}

// WeatherHandler serves coordinate-based forecast and historical lookups.
type WeatherHandler struct {
	forecasts  ForecastProvider
	historical HistoricalProvider
	logger     *slog.Logger
}

// NewWeatherHandler creates a WeatherHandler.
func NewWeatherHandler(forecasts ForecastProvider, historical HistoricalProvider, l *slog.Logger) *WeatherHandler {
	if l == nil {
		l = slog.Default()
	}
	return &WeatherHandler{forecasts: forecasts, historical: historical, logger: l}
}

// RegisterRoutes mounts weather routes on the provided chi.Router.
func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Route("/weather", func(r chi.Router) {
		r.Get("/", h.Forecast)
		r.Get("/historical", h.Historical)
	})
}

// Forecast handles GET /v1/weather?lat&lon&start&end.
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, start, end, err := parseWeatherQuery(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.forecasts.Forecast(r.Context(), lat, lon, start, end)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result.Weather})
}

// Historical handles GET /v1/weather/historical?lat&lon&start&end. The
// response carries averaged per-day records for the trip dates plus the
// number of archive years that informed them.
func (h *WeatherHandler) Historical(w http.ResponseWriter, r *http.Request) {
	lat, lon, start, end, err := parseWeatherQuery(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	series, err := h.historical.Aggregate(r.Context(), lat, lon, start, end)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: HistoricalWeatherResponse{
			Weather:     series.Days,
			SampleYears: series.SampleYears,
		},
	})
}

// parseWeatherQuery extracts and validates the shared lat/lon/start/end
// query parameters. Range validation beyond syntax is left to the services.
func parseWeatherQuery(r *http.Request) (lat, lon float64, start, end string, err error) {
	q := r.URL.Query()

	for _, name := range []string{"lat", "lon", "start", "end"} {
		if q.Get(name) == "" {
			return 0, 0, "", "", types.NewAppErrorWithDetails(
				types.ErrCodeValidationMissingField,
				"missing required query parameter",
				nil,
				map[string]any{"parameter": name},
			)
		}
	}

	lat, err = strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return 0, 0, "", "", types.NewAppError(types.ErrCodeValidationInvalidLat,
			"lat must be a number", err)
	}
	lon, err = strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return 0, 0, "", "", types.NewAppError(types.ErrCodeValidationInvalidLon,
			"lon must be a number", err)
	}
	if err = types.ValidateCoordinates(lat, lon); err != nil {
		return 0, 0, "", "", err
	}

	start, end = q.Get("start"), q.Get("end")
	if _, _, err = types.ParseDateRange(start, end); err != nil {
		return 0, 0, "", "", err
	}

	return lat, lon, start, end, nil
}

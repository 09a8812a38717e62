package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slopescout/internal/core"
	"slopescout/internal/external"
	"slopescout/internal/types"
	"slopescout/internal/weather"
)

type mockForecastProvider struct {
	forecastFn func(ctx context.Context, lat, lon float64, start, end string) (*external.ForecastResult, error)

	calls int
}

func (m *mockForecastProvider) Forecast(ctx context.Context, lat, lon float64, start, end string) (*external.ForecastResult, error) {
	m.calls++
	if m.forecastFn != nil {
		return m.forecastFn(ctx, lat, lon, start, end)
	}
	return &external.ForecastResult{
		Weather: []types.DailyWeather{
			{Date: start, TempMax: -1, TempMin: -8, SnowfallSum: 12},
		},
		Timezone:         "America/Denver",
		UTCOffsetSeconds: -25200,
	}, nil
}

type mockHistoricalProvider struct {
	aggregateFn func(ctx context.Context, lat, lon float64, tripStart, tripEnd string) (*weather.HistoricalSeries, error)
}

func (m *mockHistoricalProvider) Aggregate(ctx context.Context, lat, lon float64, tripStart, tripEnd string) (*weather.HistoricalSeries, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, lat, lon, tripStart, tripEnd)
	}
	return &weather.HistoricalSeries{
		Days: []types.DailyWeather{
			{Date: tripStart, TempMax: 0, TempMin: -10, SnowfallSum: 8},
		},
		SampleYears: 5,
	}, nil
}

func newTestWeatherHandler() (*WeatherHandler, *mockForecastProvider, *mockHistoricalProvider) {
	forecasts := &mockForecastProvider{}
	historical := &mockHistoricalProvider{}
	handler := NewWeatherHandler(forecasts, historical, testLogger())
	return handler, forecasts, historical
}

func TestWeatherHandler_Forecast_Success(t *testing.T) {
	handler, forecasts, _ := newTestWeatherHandler()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weather?lat=39.6061&lon=-106.355&start=2026-01-10&end=2026-01-12", nil)
	rr := httptest.NewRecorder()
	handler.Forecast(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, forecasts.calls)

	var resp struct {
		Data []types.DailyWeather `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2026-01-10", resp.Data[0].Date)
	assert.Equal(t, 12.0, resp.Data[0].SnowfallSum)
}

func TestWeatherHandler_Forecast_MissingParameter(t *testing.T) {
	handler, forecasts, _ := newTestWeatherHandler()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weather?lat=39.6&start=2026-01-10&end=2026-01-12", nil)
	rr := httptest.NewRecorder()
	handler.Forecast(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, forecasts.calls)

	var errResp core.APIErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, string(types.ErrCodeValidationMissingField), errResp.Error.Code)
	assert.Equal(t, "lon", errResp.Error.Details["parameter"])
}

func TestWeatherHandler_Forecast_InvalidCoordinates(t *testing.T) {
	handler, forecasts, _ := newTestWeatherHandler()

	tests := []struct {
		name  string
		query string
		code  types.ErrorCode
	}{
		{"non-numeric lat", "lat=abc&lon=-106.3&start=2026-01-10&end=2026-01-12", types.ErrCodeValidationInvalidLat},
		{"non-numeric lon", "lat=39.6&lon=east&start=2026-01-10&end=2026-01-12", types.ErrCodeValidationInvalidLon},
		{"lat out of range", "lat=95.0&lon=-106.3&start=2026-01-10&end=2026-01-12", types.ErrCodeValidationInvalidLat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/weather?"+tc.query, nil)
			rr := httptest.NewRecorder()
			handler.Forecast(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var errResp core.APIErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
			assert.Equal(t, string(tc.code), errResp.Error.Code)
		})
	}
	assert.Equal(t, 0, forecasts.calls)
}

func TestWeatherHandler_Forecast_InvalidDateRange(t *testing.T) {
	handler, forecasts, _ := newTestWeatherHandler()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weather?lat=39.6&lon=-106.3&start=2026-01-12&end=2026-01-10", nil)
	rr := httptest.NewRecorder()
	handler.Forecast(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, forecasts.calls)
}

func TestWeatherHandler_Forecast_UpstreamError(t *testing.T) {
	handler, forecasts, _ := newTestWeatherHandler()
	forecasts.forecastFn = func(ctx context.Context, lat, lon float64, start, end string) (*external.ForecastResult, error) {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather, "provider unavailable", nil)
	}

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weather?lat=39.6&lon=-106.3&start=2026-01-10&end=2026-01-12", nil)
	rr := httptest.NewRecorder()
	handler.Forecast(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestWeatherHandler_Historical_Success(t *testing.T) {
	handler, _, _ := newTestWeatherHandler()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weather/historical?lat=44.5303&lon=-72.7814&start=2026-01-10&end=2026-01-12", nil)
	rr := httptest.NewRecorder()
	handler.Historical(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data HistoricalWeatherResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 5, resp.Data.SampleYears)
	require.Len(t, resp.Data.Weather, 1)
	assert.Equal(t, "2026-01-10", resp.Data.Weather[0].Date)
}

func TestWeatherHandler_Historical_NoDataPropagates(t *testing.T) {
	handler, _, historical := newTestWeatherHandler()
	historical.aggregateFn = func(ctx context.Context, lat, lon float64, tripStart, tripEnd string) (*weather.HistoricalSeries, error) {
		return nil, types.NewAppError(types.ErrCodeNoHistoricalData, "no archive years available", nil)
	}

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weather/historical?lat=44.5&lon=-72.8&start=2026-01-10&end=2026-01-12", nil)
	rr := httptest.NewRecorder()
	handler.Historical(rr, req)

	var errResp core.APIErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, string(types.ErrCodeNoHistoricalData), errResp.Error.Code)
}

package trips

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slopescout/internal/external"
	"slopescout/internal/resorts"
	"slopescout/internal/types"
	"slopescout/internal/weather"
)

type span struct {
	start, end string
}

// fakeProvider serves canned forecast and archive responses and records the
// requested spans.
type fakeProvider struct {
	mu sync.Mutex

	forecastResult *external.ForecastResult
	forecastErr    error
	archiveResult  []types.DailyWeather
	archiveErr     error

	forecastSpans []span
	archiveSpans  []span
}

func (f *fakeProvider) Forecast(_ context.Context, _, _ float64, start, end string) (*external.ForecastResult, error) {
	f.mu.Lock()
	f.forecastSpans = append(f.forecastSpans, span{start, end})
	f.mu.Unlock()
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.forecastResult, nil
}

func (f *fakeProvider) Archive(_ context.Context, _, _ float64, start, end string) ([]types.DailyWeather, error) {
	f.mu.Lock()
	f.archiveSpans = append(f.archiveSpans, span{start, end})
	f.mu.Unlock()
	if f.archiveErr != nil {
		return nil, f.archiveErr
	}
	return f.archiveResult, nil
}

type fakeAggregator struct {
	series *weather.HistoricalSeries
	err    error
	spans  []span
}

func (f *fakeAggregator) Aggregate(_ context.Context, _, _ float64, start, end string) (*weather.HistoricalSeries, error) {
	f.spans = append(f.spans, span{start, end})
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func testCatalog(t *testing.T) *resorts.Catalog {
	t.Helper()
	cat, err := resorts.NewCatalogFromEntries([]resorts.Resort{
		{ID: "vail", Name: "Vail", Region: types.RegionWest, State: "CO", Lat: 39.6061, Lon: -106.355, BaseElevationFt: 8120, SummitElevFt: 11570},
		{ID: "stowe", Name: "Stowe", Region: types.RegionEast, State: "VT", Lat: 44.5303, Lon: -72.7814, BaseElevationFt: 1559, SummitElevFt: 3625},
	})
	require.NoError(t, err)
	return cat
}

// testNow is 15:00 UTC so the resort-local date matches the UTC date for
// the mountain-time offsets used below.
var testNow = time.Date(2026, 1, 9, 15, 0, 0, 0, time.UTC)

func day(date string, snow, tMax, tMin float64) types.DailyWeather {
	return types.DailyWeather{Date: date, SnowfallSum: snow, TempMax: tMax, TempMin: tMin}
}

func newTestService(provider *fakeProvider, agg *fakeAggregator, cat *resorts.Catalog) *Service {
	return NewService(cat, provider, agg, nil, WithNowFunc(func() time.Time { return testNow }))
}

func TestConditionsOutlook_FusesHistoryAndForecast(t *testing.T) {
	provider := &fakeProvider{
		archiveResult: []types.DailyWeather{
			day("2026-01-07", 5.0, -3, -9),
			day("2026-01-08", 10.0, -2, -8),
		},
		forecastResult: &external.ForecastResult{
			Weather: []types.DailyWeather{
				day("2026-01-09", 22.0, -4, -10),
				day("2026-01-10", 0, -1, -6),
				day("2026-01-11", 3.0, 0, -5),
			},
			Timezone:         "America/Denver",
			UTCOffsetSeconds: -25200,
		},
	}
	svc := newTestService(provider, &fakeAggregator{}, testCatalog(t))

	out, err := svc.ConditionsOutlook(context.Background(), "vail", 3)
	require.NoError(t, err)

	assert.Equal(t, "vail", out.Resort.ID)
	require.Len(t, out.Data, 3)
	assert.Equal(t, 3, out.Days)

	first := out.Data[0]
	assert.Equal(t, "2026-01-09", first.Date)
	assert.Empty(t, first.Notes)
	assert.NotEmpty(t, first.Ridability.Label)
	assert.NotEmpty(t, first.BestWindow.Window)
	// 22cm (+20) on a -4 day (+6) over the base 50.
	assert.Equal(t, 76, first.Ridability.Score)
	assert.Equal(t, types.LabelGood, first.Ridability.Label)

	// Recent summary sums the two observed days before today.
	assert.InDelta(t, 15.0, out.Recent.SnowCM, 0.001)

	// Requested spans: history covers the two prior days, forecast starts today.
	require.Len(t, provider.archiveSpans, 1)
	assert.Equal(t, span{"2026-01-07", "2026-01-08"}, provider.archiveSpans[0])
	require.Len(t, provider.forecastSpans, 1)
	assert.Equal(t, span{"2026-01-09", "2026-01-11"}, provider.forecastSpans[0])
}

func TestConditionsOutlook_HistoryFailureDegradesGracefully(t *testing.T) {
	provider := &fakeProvider{
		archiveErr: errors.New("archive down"),
		forecastResult: &external.ForecastResult{
			Weather: []types.DailyWeather{
				day("2026-01-09", 4.0, -2, -7),
				day("2026-01-10", 0, -1, -6),
			},
			UTCOffsetSeconds: -25200,
		},
	}
	svc := newTestService(provider, &fakeAggregator{}, testCatalog(t))

	out, err := svc.ConditionsOutlook(context.Background(), "vail", 2)
	require.NoError(t, err)
	require.Len(t, out.Data, 2)
	assert.Zero(t, out.Recent.SnowCM)
}

func TestConditionsOutlook_ForecastFailureIsFatal(t *testing.T) {
	provider := &fakeProvider{
		archiveResult: []types.DailyWeather{day("2026-01-08", 0, -1, -5)},
		forecastErr:   types.NewAppError(types.ErrCodeUpstreamWeather, "provider down", nil),
	}
	svc := newTestService(provider, &fakeAggregator{}, testCatalog(t))

	_, err := svc.ConditionsOutlook(context.Background(), "vail", 2)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamWeather, appErr.Code)
}

func TestConditionsOutlook_UnknownResort(t *testing.T) {
	svc := newTestService(&fakeProvider{}, &fakeAggregator{}, testCatalog(t))

	_, err := svc.ConditionsOutlook(context.Background(), "nowhere", 2)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundResort, appErr.Code)
}

func TestConditionsOutlook_ClampsDaysToHorizon(t *testing.T) {
	provider := &fakeProvider{
		forecastResult: &external.ForecastResult{
			Weather:          []types.DailyWeather{day("2026-01-09", 0, -1, -5)},
			UTCOffsetSeconds: 0,
		},
	}
	svc := newTestService(provider, &fakeAggregator{}, testCatalog(t))

	_, err := svc.ConditionsOutlook(context.Background(), "vail", 99)
	require.NoError(t, err)

	require.Len(t, provider.forecastSpans, 1)
	// 16 days inclusive of today.
	assert.Equal(t, span{"2026-01-09", "2026-01-24"}, provider.forecastSpans[0])
}

func TestConditionsOutlook_DateMismatchNote(t *testing.T) {
	// Series starts tomorrow relative to the resort-local date.
	provider := &fakeProvider{
		forecastResult: &external.ForecastResult{
			Weather: []types.DailyWeather{
				day("2026-01-10", 0, -1, -5),
				day("2026-01-11", 0, -1, -5),
			},
			UTCOffsetSeconds: -25200,
		},
	}
	svc := newTestService(provider, &fakeAggregator{}, testCatalog(t))

	out, err := svc.ConditionsOutlook(context.Background(), "vail", 2)
	require.NoError(t, err)
	require.NotEmpty(t, out.Data)
	assert.Equal(t, "2026-01-10", out.Data[0].Date)
	assert.Contains(t, out.Data[0].Notes, "Date mismatch: showing available data")
}

func TestConditionsOutlook_RegionComesFromResort(t *testing.T) {
	// A melt-freeze day: east and west recommend different windows.
	forecast := &external.ForecastResult{
		Weather:          []types.DailyWeather{day("2026-01-09", 0, 3, -6)},
		UTCOffsetSeconds: 0,
	}

	west := newTestService(&fakeProvider{forecastResult: forecast}, &fakeAggregator{}, testCatalog(t))
	outWest, err := west.ConditionsOutlook(context.Background(), "vail", 1)
	require.NoError(t, err)

	east := newTestService(&fakeProvider{forecastResult: forecast}, &fakeAggregator{}, testCatalog(t))
	outEast, err := east.ConditionsOutlook(context.Background(), "stowe", 1)
	require.NoError(t, err)

	assert.Equal(t, "11am – 2pm", outWest.Data[0].BestWindow.Window)
	assert.Equal(t, "9am – 11am", outEast.Data[0].BestWindow.Window)
}

func TestCompareTrip_RunsBothFetchesAndCompares(t *testing.T) {
	provider := &fakeProvider{
		forecastResult: &external.ForecastResult{
			Weather: []types.DailyWeather{
				day("2026-01-10", 20.0, -5, -12),
				day("2026-01-11", 5.0, -3, -10),
			},
		},
	}
	agg := &fakeAggregator{
		series: &weather.HistoricalSeries{
			Days: []types.DailyWeather{
				day("2026-01-10", 10.0, -4, -11),
				day("2026-01-11", 10.0, -4, -11),
			},
			SampleYears: 5,
		},
	}
	svc := newTestService(provider, agg, testCatalog(t))

	result, err := svc.CompareTrip(context.Background(), "vail", "2026-01-10", "2026-01-11")
	require.NoError(t, err)
	require.Len(t, result.Daily, 2)

	assert.Equal(t, types.VerdictAboveAvg, result.Daily[0].Verdict)
	assert.Equal(t, 5, result.Daily[0].Historical.SampleYears)
	assert.InDelta(t, 25.0, result.Summary.TotalForecastSnow, 0.001)

	require.Len(t, provider.forecastSpans, 1)
	assert.Equal(t, span{"2026-01-10", "2026-01-11"}, provider.forecastSpans[0])
	require.Len(t, agg.spans, 1)
	assert.Equal(t, span{"2026-01-10", "2026-01-11"}, agg.spans[0])
}

func TestCompareTrip_InvalidRangeRejectedBeforeFetching(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider, &fakeAggregator{}, testCatalog(t))

	_, err := svc.CompareTrip(context.Background(), "vail", "2026-01-11", "2026-01-10")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationInvalidDates, appErr.Code)
	assert.Empty(t, provider.forecastSpans)
}

func TestCompareTrip_NoHistoricalDataPropagates(t *testing.T) {
	provider := &fakeProvider{
		forecastResult: &external.ForecastResult{
			Weather: []types.DailyWeather{day("2026-01-10", 1.0, -5, -12)},
		},
	}
	agg := &fakeAggregator{
		err: types.NewAppError(types.ErrCodeNoHistoricalData, "all archive years failed", nil),
	}
	svc := newTestService(provider, agg, testCatalog(t))

	_, err := svc.CompareTrip(context.Background(), "vail", "2026-01-10", "2026-01-10")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNoHistoricalData, appErr.Code)
}

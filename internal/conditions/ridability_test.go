package conditions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slopescout/internal/types"
)

func TestScoreRidability_PowderDay(t *testing.T) {
	day := types.DailyWeather{
		SnowfallSum:  25,
		TempMax:      -8,
		TempMin:      -12,
		WindSpeedMax: 10,
		WeatherCode:  71, // snow
	}

	r := ScoreRidability(day, types.RecentWeather{}, types.RegionEast)

	// base 50 + snow 20 + cold 10 = 80
	assert.GreaterOrEqual(t, r.Score, 80)
	assert.Contains(t, []types.RidabilityLabel{types.LabelGreat, types.LabelPrime}, r.Label)
	assert.Equal(t, []string{"Deep fresh snow (>20cm)", "Cold, preservable temps"}, r.Reasons)
}

func TestScoreRidability_RainyEast(t *testing.T) {
	day := types.DailyWeather{
		SnowfallSum:      0,
		TempMax:          5,
		WeatherCode:      63, // rain
		PrecipitationSum: 12,
		WindSpeedMax:     15,
	}

	r := ScoreRidability(day, types.RecentWeather{}, types.RegionEast)

	// base 50 - rain 20*1.2 - very warm 15 = 11
	assert.Equal(t, 11, r.Score)
	assert.Equal(t, types.LabelPoor, r.Label)
	assert.Equal(t, []string{"Heavy rain expected", "Very warm (slush/spring)"}, r.Reasons)
}

func TestScoreRidability_RainRegionMultiplier(t *testing.T) {
	day := types.DailyWeather{
		TempMax:          2,
		WeatherCode:      61,
		PrecipitationSum: 12,
	}

	east := ScoreRidability(day, types.RecentWeather{}, types.RegionEast)
	west := ScoreRidability(day, types.RecentWeather{}, types.RegionWest)

	// West takes the unscaled -20, east -24; 2°C sits in the -8 temp band.
	assert.Equal(t, 50-20-8, west.Score)
	assert.Equal(t, 50-24-8, east.Score)
}

func TestScoreRidability_RainWithoutRainCode(t *testing.T) {
	// No rain code, but precipitation exceeds the snowfall water equivalent
	// on a warm day: still flagged rainy.
	day := types.DailyWeather{
		SnowfallSum:      0.5, // 5mm water equivalent
		PrecipitationSum: 8,
		TempMax:          4,
		WeatherCode:      3, // overcast
	}

	r := ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
	assert.Contains(t, r.Reasons, "Light rain / Wet conditions")

	// Cold day with the same precipitation stays dry: snow, not rain.
	day.TempMax = -3
	r = ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
	assert.NotContains(t, r.Reasons, "Light rain / Wet conditions")
}

func TestScoreRidability_TemperatureBands(t *testing.T) {
	tests := []struct {
		tempMax    float64
		wantPoints int
	}{
		{-6, 10},
		{-2, 6},
		{1, 0},
		{3, -8},
		{10, -15},
	}

	for _, tt := range tests {
		day := types.DailyWeather{TempMax: tt.tempMax, TempMin: -20}
		r := ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
		// TempMin -20 never triggers thaw/refreeze because TempMax <= 0
		// in the cold cases; for warm cases it does trigger, so isolate.
		want := 50 + tt.wantPoints
		if tt.tempMax > 0 {
			want += 8 // corn snow bonus
		}
		assert.Equal(t, want, r.Score, "tempMax=%v", tt.tempMax)
	}
}

func TestScoreRidability_ThawRefreeze(t *testing.T) {
	day := types.DailyWeather{TempMax: 1, TempMin: -5}
	r := ScoreRidability(day, types.RecentWeather{}, types.RegionWest)

	// base 50 + corn 8; tempMax 1 is neutral.
	assert.Equal(t, 58, r.Score)
	assert.Equal(t, []string{"Corn snow cycle (Melt/Freeze)"}, r.Reasons)

	// No refreeze: overnight low too mild.
	day.TempMin = -3
	r = ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
	assert.NotContains(t, r.Reasons, "Corn snow cycle (Melt/Freeze)")
}

func TestScoreRidability_WindBands(t *testing.T) {
	day := types.DailyWeather{TempMax: -1, WindSpeedMax: 45}
	r := ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
	assert.Contains(t, r.Reasons, "High winds")

	day.WindSpeedMax = 30
	r = ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
	assert.Contains(t, r.Reasons, "Breezy")

	day.WindSpeedMax = 10
	r = ScoreRidability(day, types.RecentWeather{}, types.RegionWest)
	assert.Empty(t, r.Reasons, "neutral temp band and calm wind trigger nothing")
}

func TestScoreRidability_AlwaysInRange(t *testing.T) {
	days := []types.DailyWeather{
		{}, // all zeros
		{SnowfallSum: 100, TempMax: -30, TempMin: -40},
		{PrecipitationSum: 80, TempMax: 15, WeatherCode: 65, WindSpeedMax: 90},
		{SnowfallSum: -5, TempMax: -100, WindSpeedMax: -10},
	}

	for i, day := range days {
		r := ScoreRidability(day, types.RecentWeather{}, types.RegionEast)
		require.GreaterOrEqual(t, r.Score, 0, "case %d", i)
		require.LessOrEqual(t, r.Score, 100, "case %d", i)
		require.NotEmpty(t, r.Label)
	}
}

func TestScoreRidability_ReasonOrderStable(t *testing.T) {
	// A day that trips every rule: snow, rain, warm temps, wind.
	day := types.DailyWeather{
		SnowfallSum:      12,
		PrecipitationSum: 200,
		TempMax:          5,
		TempMin:          -5,
		WeatherCode:      65,
		WindSpeedMax:     50,
	}

	r := ScoreRidability(day, types.RecentWeather{}, types.RegionEast)
	assert.Equal(t, []string{
		"Good snow accumulation (10-19cm)",
		"Heavy rain expected",
		"Very warm (slush/spring)",
		"Corn snow cycle (Melt/Freeze)",
		"High winds",
	}, r.Reasons)
}

func TestRidabilityLabelBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  types.RidabilityLabel
	}{
		{95, types.LabelPrime},
		{90, types.LabelPrime},
		{89.9, types.LabelGreat},
		{80, types.LabelGreat},
		{60, types.LabelGood},
		{40, types.LabelFair},
		{39.9, types.LabelPoor},
		{0, types.LabelPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ridabilityLabel(tt.score), "score=%v", tt.score)
	}
}

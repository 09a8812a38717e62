// Package conditions scores how favorable a day's weather is for skiing and
// recommends the best on-mountain time window. Both computations are total
// functions over their numeric inputs: every well-formed record produces a
// result, with missing optional fields treated as zero.
package conditions

import (
	"math"

	"slopescout/internal/types"
)

// baseScore is the neutral starting point before any rule applies.
const baseScore = 50.0

// rainWeatherCodes is the set of WMO weather codes classified as rain or
// mixed precipitation (drizzle 51-55, rain 61-65, showers 80-82). Specific
// to the Open-Meteo code scheme; re-validate if the provider changes.
var rainWeatherCodes = map[int]bool{
	51: true, 53: true, 55: true,
	61: true, 63: true, 65: true,
	80: true, 81: true, 82: true,
}

// rainPenaltyMultiplier scales the rain penalty by region. Eastern
// maritime-influenced snowpacks degrade faster in rain.
func rainPenaltyMultiplier(region types.Region) float64 {
	if region == types.RegionEast {
		return 1.2
	}
	return 1.0
}

// scoreInput bundles everything a scoring rule can see.
type scoreInput struct {
	Day    types.DailyWeather
	Recent types.RecentWeather
	Region types.Region
}

// scoreEffect is the outcome of one triggered rule.
type scoreEffect struct {
	Points float64
	Reason string
}

// scoreRule evaluates one independent factor. Rules run in declaration
// order; every triggered rule contributes its points and appends its reason.
type scoreRule struct {
	Name string
	Eval func(scoreInput) (scoreEffect, bool)
}

// scoreRules is the ordered rule table. Order is part of the contract:
// reasons appear in this order in the output.
var scoreRules = []scoreRule{
	{Name: "snowfall", Eval: evalSnowfall},
	{Name: "rain", Eval: evalRain},
	{Name: "temperature", Eval: evalTemperature},
	{Name: "thaw_refreeze", Eval: evalThawRefreeze},
	{Name: "wind", Eval: evalWind},
}

func evalSnowfall(in scoreInput) (scoreEffect, bool) {
	switch snow := in.Day.SnowfallSum; {
	case snow >= 20:
		return scoreEffect{Points: 20, Reason: "Deep fresh snow (>20cm)"}, true
	case snow >= 10:
		return scoreEffect{Points: 12, Reason: "Good snow accumulation (10-19cm)"}, true
	case snow >= 3:
		return scoreEffect{Points: 6, Reason: "Dusting of fresh snow"}, true
	default:
		return scoreEffect{}, false
	}
}

// evalRain flags a day as rainy when the provider code is in the rain set,
// or when the precipitation total exceeds what the snowfall accounts for
// (1cm snow ~ 1mm water) on a warm day.
func evalRain(in scoreInput) (scoreEffect, bool) {
	estimatedRainMM := math.Max(0, in.Day.PrecipitationSum-in.Day.SnowfallSum*10)
	rainy := rainWeatherCodes[in.Day.WeatherCode] || (estimatedRainMM > 0 && in.Day.TempMax > 2)
	if !rainy {
		return scoreEffect{}, false
	}

	mult := rainPenaltyMultiplier(in.Region)
	switch precip := in.Day.PrecipitationSum; {
	case precip >= 10:
		return scoreEffect{Points: -20 * mult, Reason: "Heavy rain expected"}, true
	case precip >= 3:
		return scoreEffect{Points: -12 * mult, Reason: "Light rain / Wet conditions"}, true
	default:
		return scoreEffect{Points: -6 * mult, Reason: "Possible drizzle"}, true
	}
}

func evalTemperature(in scoreInput) (scoreEffect, bool) {
	switch tempMax := in.Day.TempMax; {
	case tempMax <= -6:
		return scoreEffect{Points: 10, Reason: "Cold, preservable temps"}, true
	case tempMax <= -2:
		return scoreEffect{Points: 6, Reason: "Cold enough"}, true
	case tempMax <= 1:
		// Neutral band: no points, no reason.
		return scoreEffect{}, false
	case tempMax <= 3:
		return scoreEffect{Points: -8, Reason: "Warm (soft/heavy)"}, true
	default:
		return scoreEffect{Points: -15, Reason: "Very warm (slush/spring)"}, true
	}
}

func evalThawRefreeze(in scoreInput) (scoreEffect, bool) {
	if in.Day.TempMax > 0 && in.Day.TempMin <= -4 {
		return scoreEffect{Points: 8, Reason: "Corn snow cycle (Melt/Freeze)"}, true
	}
	return scoreEffect{}, false
}

func evalWind(in scoreInput) (scoreEffect, bool) {
	switch wind := in.Day.WindSpeedMax; {
	case wind >= 40:
		return scoreEffect{Points: -6, Reason: "High winds"}, true
	case wind >= 24:
		return scoreEffect{Points: -3, Reason: "Breezy"}, true
	default:
		return scoreEffect{}, false
	}
}

// ScoreRidability computes the 0-100 ridability score for a single day.
// Starting from a neutral base, every triggered rule contributes points and
// a reason; the running total is clamped to [0,100] and rounded.
func ScoreRidability(day types.DailyWeather, recent types.RecentWeather, region types.Region) types.Ridability {
	in := scoreInput{Day: day, Recent: recent, Region: region}

	score := baseScore
	var reasons []string
	for _, rule := range scoreRules {
		effect, triggered := rule.Eval(in)
		if !triggered {
			continue
		}
		score += effect.Points
		reasons = append(reasons, effect.Reason)
	}

	score = math.Max(0, math.Min(100, score))

	return types.Ridability{
		Score:   int(math.Round(score)),
		Label:   ridabilityLabel(score),
		Reasons: reasons,
	}
}

func ridabilityLabel(score float64) types.RidabilityLabel {
	switch {
	case score >= 90:
		return types.LabelPrime
	case score >= 80:
		return types.LabelGreat
	case score >= 60:
		return types.LabelGood
	case score >= 40:
		return types.LabelFair
	default:
		return types.LabelPoor
	}
}

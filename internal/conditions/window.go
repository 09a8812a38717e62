package conditions

import "slopescout/internal/types"

// windowRule is one branch of the best-window decision tree. Branches are
// evaluated in priority order and the first match wins; windows are never
// blended.
type windowRule struct {
	Name  string
	Match func(day types.DailyWeather) bool
	Pick  func(day types.DailyWeather, region types.Region) types.BestWindow
}

var windowRules = []windowRule{
	{
		Name: "powder_day",
		Match: func(d types.DailyWeather) bool {
			return d.SnowfallSum >= 10 && d.TempMax <= -2
		},
		Pick: func(types.DailyWeather, types.Region) types.BestWindow {
			return types.BestWindow{
				Window: "Opening to 11am",
				Note:   "Fresh tracks! Get there early.",
			}
		},
	},
	{
		Name: "high_wind",
		Match: func(d types.DailyWeather) bool {
			return d.WindSpeedMax >= 40
		},
		Pick: func(types.DailyWeather, types.Region) types.BestWindow {
			return types.BestWindow{
				Window: "Midday sheltered areas",
				Note:   "High winds, stay low/trees.",
			}
		},
	},
	{
		Name: "stable_cold",
		Match: func(d types.DailyWeather) bool {
			return d.TempMax <= -4
		},
		Pick: func(types.DailyWeather, types.Region) types.BestWindow {
			return types.BestWindow{
				Window: "All day (Best 9am–2pm)",
				Note:   "Cold & consistent surface.",
			}
		},
	},
	{
		// Daytime thaw with an overnight refreeze: the window depends on
		// when the crust softens, which differs by snow climate.
		Name: "corn_cycle",
		Match: func(d types.DailyWeather) bool {
			return d.TempMax > 0 && d.TempMin <= -4
		},
		Pick: func(_ types.DailyWeather, region types.Region) types.BestWindow {
			if region == types.RegionEast {
				return types.BestWindow{
					Window: "9am – 11am",
					Note:   "Wait for crust to soften.",
				}
			}
			return types.BestWindow{
				Window: "11am – 2pm",
				Note:   "Late morning corn snow.",
			}
		},
	},
	{
		Name: "warm_slush",
		Match: func(d types.DailyWeather) bool {
			return d.TempMax >= 1
		},
		Pick: func(types.DailyWeather, types.Region) types.BestWindow {
			return types.BestWindow{
				Window: "Early morning only",
				Note:   "Before it gets too slushy/sticky.",
			}
		},
	},
}

// defaultWindow covers days no branch claims.
var defaultWindow = types.BestWindow{
	Window: "9am – 3pm",
	Note:   "Standard resort hours.",
}

// RecommendBestWindow picks the recommended time window for a day via the
// fixed-priority decision tree. Exactly one window is returned per day.
func RecommendBestWindow(day types.DailyWeather, region types.Region) types.BestWindow {
	for _, rule := range windowRules {
		if rule.Match(day) {
			return rule.Pick(day, region)
		}
	}
	return defaultWindow
}

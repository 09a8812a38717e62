package types

import "time"

// ISODate is the wire format for calendar dates throughout the API.
const ISODate = "2006-01-02"

// DailyWeather is one calendar day of weather data, either a forecast day or
// a historical (averaged) day. Records are reshaped from the provider's
// column-oriented daily series and never mutated after construction.
type DailyWeather struct {
	Date                     string  `json:"date"` // YYYY-MM-DD
	TempMax                  float64 `json:"tempMax"`
	TempMin                  float64 `json:"tempMin"`
	PrecipitationSum         float64 `json:"precipitationSum"` // mm
	SnowfallSum              float64 `json:"snowfallSum"`      // cm
	PrecipitationProbability float64 `json:"precipitationProbability"`
	WeatherCode              int     `json:"weatherCode"`  // WMO code
	WindSpeedMax             float64 `json:"windSpeedMax"` // km/h
	UVIndexMax               float64 `json:"uvIndexMax"`
}

// Day parses the record's date into a UTC midnight time.Time.
func (w DailyWeather) Day() (time.Time, error) {
	return time.Parse(ISODate, w.Date)
}

// RecentWeather summarizes the two days preceding a forecast day. It feeds
// the ridability scorer's surface-condition context.
type RecentWeather struct {
	RainMM  float64 `json:"rainMm"`
	SnowCM  float64 `json:"snowCm"`
	TempMin float64 `json:"tempMin"`
	TempMax float64 `json:"tempMax"`
}

// HourlyCrowd is the estimated crowd level for a single operating hour.
// Entries are owned by the DailyCrowd that contains them.
type HourlyCrowd struct {
	Hour       int         `json:"hour"`       // 7..17
	CrowdLevel int         `json:"crowdLevel"` // 1..5
	Source     CrowdSource `json:"source"`
}

// DailyCrowd is the per-date crowd estimate: overall level, the 11-hour
// shape over operating hours 7..17, and derived arrival guidance.
type DailyCrowd struct {
	Date            string        `json:"date"`
	DayType         DayType       `json:"dayType"`
	HolidayName     string        `json:"holidayName,omitempty"`
	OverallLevel    int           `json:"overallLevel"` // 1..5
	HourlyBreakdown []HourlyCrowd `json:"hourlyBreakdown"`
	PeakHours       string        `json:"peakHours"`       // e.g. "9am - 12pm"
	BestArrivalTime string        `json:"bestArrivalTime"` // e.g. "Before 8:30am"
}

// Ridability is the composite 0-100 quality score for a single day, with the
// triggered rule reasons in evaluation order.
type Ridability struct {
	Score   int             `json:"score"`
	Label   RidabilityLabel `json:"label"`
	Reasons []string        `json:"reasons"`
}

// BestWindow is the recommended on-mountain time window for a day. Exactly
// one window is chosen per day; branches are never blended.
type BestWindow struct {
	Window string `json:"window"`
	Note   string `json:"note"`
}

// SnapshotPair holds the snowfall and average temperature for one side of a
// forecast-vs-historical comparison.
type SnapshotPair struct {
	Snowfall float64 `json:"snowfall"`
	TempAvg  float64 `json:"tempAvg"`
}

// HistoricalSnapshot extends SnapshotPair with the number of archive years
// that survived aggregation.
type HistoricalSnapshot struct {
	Snowfall    float64 `json:"snowfall"`
	TempAvg     float64 `json:"tempAvg"`
	SampleYears int     `json:"sampleYears"`
}

// ComparisonDelta holds the forecast-minus-historical differences for one day.
type ComparisonDelta struct {
	Snowfall    float64 `json:"snowfall"`    // cm
	SnowfallPct float64 `json:"snowfallPct"` // % above/below average
	Temp        float64 `json:"temp"`        // degrees C
}

// ComparisonResult is one compared day of a trip.
type ComparisonResult struct {
	Date       string             `json:"date"`
	Forecast   SnapshotPair       `json:"forecast"`
	Historical HistoricalSnapshot `json:"historical"`
	Delta      ComparisonDelta    `json:"delta"`
	Verdict    Verdict            `json:"verdict"`
	Confidence Confidence         `json:"confidence"`
}

// TripSummary is the trip-level rollup of a comparison.
type TripSummary struct {
	TotalForecastSnow   float64 `json:"totalForecastSnow"`
	TotalHistoricalSnow float64 `json:"totalHistoricalSnow"`
	SnowfallVerdict     string  `json:"snowfallVerdict"` // e.g. "25% above average"
	TempVerdict         string  `json:"tempVerdict"`     // e.g. "2.0°C colder than usual"
	BestDay             string  `json:"bestDay"`         // e.g. "Saturday looks best"
	Caption             string  `json:"caption"`
}

// TripComparison is the ordered per-day comparison plus the trip summary.
type TripComparison struct {
	Daily   []ComparisonResult `json:"daily"`
	Summary TripSummary        `json:"summary"`
}

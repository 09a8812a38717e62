package types

// Region identifies the broad snow climate a resort sits in. Eastern,
// maritime-influenced snowpacks are modeled as more rain-sensitive than
// western continental ones.
type Region string

const (
	RegionEast Region = "east"
	RegionWest Region = "west"
)

// Valid reports whether the region is a recognized value.
func (r Region) Valid() bool {
	return r == RegionEast || r == RegionWest
}

// DayType classifies a calendar date for crowd estimation.
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
	DayTypeHoliday DayType = "holiday"
)

// CrowdSource tags where an hourly crowd level came from.
type CrowdSource string

const (
	CrowdSourceHeuristic CrowdSource = "heuristic"
	CrowdSourceCommunity CrowdSource = "community"
)

// RidabilityLabel is the qualitative bucket for a ridability score,
// monotonic in the score.
type RidabilityLabel string

const (
	LabelPoor  RidabilityLabel = "Poor"
	LabelFair  RidabilityLabel = "Fair"
	LabelGood  RidabilityLabel = "Good"
	LabelGreat RidabilityLabel = "Great"
	LabelPrime RidabilityLabel = "Prime"
)

// Verdict classifies forecast snowfall against the historical average.
type Verdict string

const (
	VerdictAboveAvg Verdict = "above_avg"
	VerdictAverage  Verdict = "average"
	VerdictBelowAvg Verdict = "below_avg"
)

// Confidence is the qualitative reliability tier for a compared day,
// keyed to forecast lead time from today.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

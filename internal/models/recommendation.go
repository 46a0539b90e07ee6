// ABOUTME: Recommendation request and scored result entities
// ABOUTME: Score bands drive gauge colors in the terminal UI

package models

import "time"

// DefaultRecommendationLimit is how many results a preset query asks for
const DefaultRecommendationLimit = 10

// DaySelection is the day filter of a recommendation request
type DaySelection struct {
	Type   DaySelectionType `json:"type"`
	Values []int            `json:"values"`
}

// TimeWindow bounds the hours considered, "HH:MM:SS" each
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RecommendationRequest asks the backend to rank spot/time slots
type RecommendationRequest struct {
	SpotIDs      []int        `json:"spot_ids"`
	DaySelection DaySelection `json:"day_selection"`
	TimeWindow   TimeWindow   `json:"time_window"`
	Limit        int          `json:"limit"`
}

// Validate checks the request before it is sent
func (r RecommendationRequest) Validate() error {
	if len(r.SpotIDs) == 0 {
		return errorf("select at least one spot")
	}
	if r.Limit < 1 {
		return errorf("limit must be at least 1")
	}
	if err := validateDays(r.DaySelection.Type, r.DaySelection.Values); err != nil {
		return err
	}
	return validateWindow(r.TimeWindow.Start, r.TimeWindow.End)
}

// DetailedScores breaks the overall score down by factor
type DetailedScores struct {
	Wave             float64 `json:"wave_score"`
	Wind             float64 `json:"wind_score"`
	Tide             float64 `json:"tide_score"`
	AirTemperature   float64 `json:"air_temperature_score"`
	WaterTemperature float64 `json:"water_temperature_score"`
}

// Recommendation is one scored spot/time slot
type Recommendation struct {
	SpotID         int            `json:"spot_id"`
	SpotName       string         `json:"spot_name"`
	Timestamp      time.Time      `json:"timestamp_utc"`
	OverallScore   float64        `json:"overall_score"`
	DetailedScores DetailedScores `json:"detailed_scores"`
}

// ScoreBand classifies a 0-100 score
type ScoreBand int

const (
	ScorePoor ScoreBand = iota
	ScoreFair
	ScoreGood
)

// BandOf returns good for scores >= 75, fair for >= 50, poor otherwise
func BandOf(score float64) ScoreBand {
	switch {
	case score >= 75:
		return ScoreGood
	case score >= 50:
		return ScoreFair
	default:
		return ScorePoor
	}
}

func (b ScoreBand) String() string {
	switch b {
	case ScoreGood:
		return "good"
	case ScoreFair:
		return "fair"
	default:
		return "poor"
	}
}

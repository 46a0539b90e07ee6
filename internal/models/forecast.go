// ABOUTME: Spot forecast entities as returned by the forecasts endpoint
// ABOUTME: Series helpers feed the terminal charts

package models

import "time"

// Conditions are the marine/weather readings for one hour. Any may be absent.
type Conditions struct {
	SwellHeight      *float64 `json:"swell_height_sg,omitempty"`
	SwellPeriod      *float64 `json:"swell_period_sg,omitempty"`
	WindSpeed        *float64 `json:"wind_speed_sg,omitempty"`
	WindDirection    *float64 `json:"wind_direction_sg,omitempty"`
	SeaLevel         *float64 `json:"sea_level_sg,omitempty"`
	WaterTemperature *float64 `json:"water_temperature_sg,omitempty"`
	AirTemperature   *float64 `json:"air_temperature_sg,omitempty"`
}

// HourlyForecast is one hour of conditions
type HourlyForecast struct {
	Timestamp  time.Time  `json:"timestamp_utc"`
	Conditions Conditions `json:"conditions"`
}

// DailyForecast groups a day's hourly readings
type DailyForecast struct {
	Date   string           `json:"date"`
	Hourly []HourlyForecast `json:"hourly_data"`
}

// SpotForecast is the multi-day forecast for one spot
type SpotForecast struct {
	SpotID   int             `json:"spot_id"`
	SpotName string          `json:"spot_name,omitempty"`
	Days     []DailyForecast `json:"daily_forecasts"`
}

// Metric selects one reading from Conditions
type Metric func(Conditions) *float64

var (
	SwellHeight      Metric = func(c Conditions) *float64 { return c.SwellHeight }
	SwellPeriod      Metric = func(c Conditions) *float64 { return c.SwellPeriod }
	WindSpeed        Metric = func(c Conditions) *float64 { return c.WindSpeed }
	WindDirection    Metric = func(c Conditions) *float64 { return c.WindDirection }
	SeaLevel         Metric = func(c Conditions) *float64 { return c.SeaLevel }
	WaterTemperature Metric = func(c Conditions) *float64 { return c.WaterTemperature }
	AirTemperature   Metric = func(c Conditions) *float64 { return c.AirTemperature }
)

// Series extracts one metric across the day's hours, using 0 for missing readings
func (d DailyForecast) Series(m Metric) []float64 {
	out := make([]float64, len(d.Hourly))
	for i, h := range d.Hourly {
		if v := m(h.Conditions); v != nil {
			out[i] = *v
		}
	}
	return out
}

// Label formats the day relative to now: "Today", "Tomorrow" or "Mon 02/01"
func (d DailyForecast) Label(now time.Time) string {
	day, err := time.ParseInLocation(time.DateOnly, d.Date, now.Location())
	if err != nil {
		return d.Date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch day.Sub(today) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Tomorrow"
	default:
		return day.Format("Mon 02/01")
	}
}

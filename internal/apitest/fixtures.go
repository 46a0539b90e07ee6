// ABOUTME: Deterministic seed data for the fake backend
// ABOUTME: Spots, forecasts and recommendation scores that tests can predict

package apitest

import (
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// DefaultSpots are the spots every fake server starts with
func DefaultSpots() []models.Spot {
	return []models.Spot{
		{ID: 1, Name: "Arpoador", Latitude: -22.988, Longitude: -43.191, Timezone: "America/Sao_Paulo", Region: "Rio de Janeiro", State: "RJ"},
		{ID: 2, Name: "Itacoatiara", Latitude: -22.975, Longitude: -43.036, Timezone: "America/Sao_Paulo", Region: "Niteroi", State: "RJ"},
		{ID: 3, Name: "Praia da Vila", Latitude: -28.237, Longitude: -48.661, Timezone: "America/Sao_Paulo", Region: "Imbituba", State: "SC"},
	}
}

// forecastHours are the UTC hours reported for each forecast day
var forecastHours = []int{6, 9, 12, 15, 18}

func forecastFor(spot models.Spot, days int, now time.Time) models.SpotForecast {
	f := models.SpotForecast{SpotID: spot.ID, SpotName: spot.Name}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for d := range days {
		day := start.AddDate(0, 0, d)
		df := models.DailyForecast{Date: day.Format(time.DateOnly)}
		for i, h := range forecastHours {
			swell := 0.8 + 0.1*float64(spot.ID) + 0.05*float64(i)
			wind := 4.0 + float64(d) + float64(i)
			water := 21.5
			df.Hourly = append(df.Hourly, models.HourlyForecast{
				Timestamp: day.Add(time.Duration(h) * time.Hour),
				Conditions: models.Conditions{
					SwellHeight:      &swell,
					WindSpeed:        &wind,
					WaterTemperature: &water,
				},
			})
		}
		f.Days = append(f.Days, df)
	}
	return f
}

// score is deterministic per spot, day and hour so tests can assert ordering
func score(spotID, day, hour int) float64 {
	s := 95 - float64(spotID)*5 - float64(day)*3 - float64(hour%12)
	if s < 0 {
		return 0
	}
	return s
}

// ABOUTME: Per-spot surf preference entity and partial update payload
// ABOUTME: Preferences tune how the backend scores a spot for one user

package models

import "github.com/google/uuid"

// Preference holds a user's ideal conditions for one spot
type Preference struct {
	SpotID              int       `json:"spot_id"`
	UserID              uuid.UUID `json:"user_id"`
	MinWaveHeight       *float64  `json:"min_wave_height,omitempty"`
	MaxWaveHeight       *float64  `json:"max_wave_height,omitempty"`
	MaxWindSpeed        *float64  `json:"max_wind_speed,omitempty"`
	MinWaterTemperature *float64  `json:"min_water_temperature,omitempty"`
	IsActive            bool      `json:"is_active"`
}

// PreferenceUpdate carries only the fields being changed
type PreferenceUpdate struct {
	MinWaveHeight       *float64 `json:"min_wave_height,omitempty"`
	MaxWaveHeight       *float64 `json:"max_wave_height,omitempty"`
	MaxWindSpeed        *float64 `json:"max_wind_speed,omitempty"`
	MinWaterTemperature *float64 `json:"min_water_temperature,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

// Empty reports whether the update changes nothing
func (u PreferenceUpdate) Empty() bool {
	return u.MinWaveHeight == nil && u.MaxWaveHeight == nil && u.MaxWindSpeed == nil &&
		u.MinWaterTemperature == nil && u.IsActive == nil
}

// Validate rejects negative measurements and an inverted wave range
func (u PreferenceUpdate) Validate() error {
	for name, v := range map[string]*float64{
		"min wave height": u.MinWaveHeight,
		"max wave height": u.MaxWaveHeight,
		"max wind speed":  u.MaxWindSpeed,
	} {
		if v != nil && *v < 0 {
			return errorf("%s cannot be negative", name)
		}
	}
	if u.MinWaveHeight != nil && u.MaxWaveHeight != nil && *u.MinWaveHeight > *u.MaxWaveHeight {
		return errorf("min wave height cannot exceed max wave height")
	}
	return nil
}

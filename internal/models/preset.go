// ABOUTME: Preset entity, write payloads and local validation
// ABOUTME: A preset expands into the recommendation request the backend scores

package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DaySelectionType selects how DaySelectionValues are interpreted
type DaySelectionType string

const (
	// DaysOffsets means values are day offsets from today (0 = today)
	DaysOffsets DaySelectionType = "offsets"
	// DaysWeekdays means values are weekdays (0 = Sunday)
	DaysWeekdays DaySelectionType = "weekdays"
)

const (
	// MaxDayOffset is the furthest day the backend forecasts
	MaxDayOffset = 15
	// TimeLayout is the wire format of preset time windows
	TimeLayout = "15:04:05"

	DefaultStartTime = "06:00:00"
	DefaultEndTime   = "18:00:00"
)

// DefaultDayValues is the day selection a new preset starts with: today and tomorrow
var DefaultDayValues = []int{0, 1}

// Preset is a saved recommendation query
type Preset struct {
	ID                 int              `json:"preset_id"`
	UserID             uuid.UUID        `json:"user_id"`
	Name               string           `json:"name"`
	SpotIDs            []int            `json:"spot_ids"`
	DaySelectionType   DaySelectionType `json:"day_selection_type"`
	DaySelectionValues []int            `json:"day_selection_values"`
	StartTime          string           `json:"start_time"`
	EndTime            string           `json:"end_time"`
	IsDefault          bool             `json:"is_default"`
}

// PresetCreate is the payload for creating a preset
type PresetCreate struct {
	Name               string           `json:"name"`
	SpotIDs            []int            `json:"spot_ids"`
	DaySelectionType   DaySelectionType `json:"day_selection_type"`
	DaySelectionValues []int            `json:"day_selection_values"`
	StartTime          string           `json:"start_time"`
	EndTime            string           `json:"end_time"`
	IsDefault          bool             `json:"is_default"`
}

// PresetUpdate carries only the fields being changed
type PresetUpdate struct {
	Name               *string           `json:"name,omitempty"`
	SpotIDs            []int             `json:"spot_ids,omitempty"`
	DaySelectionType   *DaySelectionType `json:"day_selection_type,omitempty"`
	DaySelectionValues []int             `json:"day_selection_values,omitempty"`
	StartTime          *string           `json:"start_time,omitempty"`
	EndTime            *string           `json:"end_time,omitempty"`
	IsDefault          *bool             `json:"is_default,omitempty"`
}

// NewPresetCreate returns a payload with the default day and time window filled in
func NewPresetCreate(name string, spotIDs []int) PresetCreate {
	return PresetCreate{
		Name:               name,
		SpotIDs:            spotIDs,
		DaySelectionType:   DaysOffsets,
		DaySelectionValues: slices.Clone(DefaultDayValues),
		StartTime:          DefaultStartTime,
		EndTime:            DefaultEndTime,
	}
}

// Normalize trims the name and expands "HH:MM" times to "HH:MM:SS"
func (p *PresetCreate) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.StartTime = NormalizeTime(p.StartTime)
	p.EndTime = NormalizeTime(p.EndTime)
}

// Validate checks the payload the way the preset form does before saving
func (p PresetCreate) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errorf("preset name is required")
	}
	if len(p.SpotIDs) == 0 {
		return errorf("select at least one spot")
	}
	if err := validateDays(p.DaySelectionType, p.DaySelectionValues); err != nil {
		return err
	}
	return validateWindow(p.StartTime, p.EndTime)
}

// Empty reports whether the update changes nothing
func (u PresetUpdate) Empty() bool {
	return u.Name == nil && u.SpotIDs == nil && u.DaySelectionType == nil &&
		u.DaySelectionValues == nil && u.StartTime == nil && u.EndTime == nil && u.IsDefault == nil
}

// Validate checks the update against the preset it will be applied to
func (u PresetUpdate) Validate(current Preset) error {
	next := current.Apply(u)
	if strings.TrimSpace(next.Name) == "" {
		return errorf("preset name is required")
	}
	if len(next.SpotIDs) == 0 {
		return errorf("select at least one spot")
	}
	if err := validateDays(next.DaySelectionType, next.DaySelectionValues); err != nil {
		return err
	}
	return validateWindow(next.StartTime, next.EndTime)
}

// Apply returns p with the update's fields applied
func (p Preset) Apply(u PresetUpdate) Preset {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.SpotIDs != nil {
		p.SpotIDs = slices.Clone(u.SpotIDs)
	}
	if u.DaySelectionType != nil {
		p.DaySelectionType = *u.DaySelectionType
	}
	if u.DaySelectionValues != nil {
		p.DaySelectionValues = slices.Clone(u.DaySelectionValues)
	}
	if u.StartTime != nil {
		p.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		p.EndTime = *u.EndTime
	}
	if u.IsDefault != nil {
		p.IsDefault = *u.IsDefault
	}
	return p
}

// RecommendationRequest expands the preset into a scoring request
func (p Preset) RecommendationRequest(limit int) RecommendationRequest {
	return RecommendationRequest{
		SpotIDs: slices.Clone(p.SpotIDs),
		DaySelection: DaySelection{
			Type:   p.DaySelectionType,
			Values: slices.Clone(p.DaySelectionValues),
		},
		TimeWindow: TimeWindow{Start: p.StartTime, End: p.EndTime},
		Limit:      limit,
	}
}

// DaysLabel renders the day selection for display, e.g. "Today, Tomorrow" or "Sat, Sun"
func (p Preset) DaysLabel() string {
	parts := make([]string, 0, len(p.DaySelectionValues))
	for _, v := range p.DaySelectionValues {
		switch {
		case p.DaySelectionType == DaysWeekdays && v >= 0 && v <= 6:
			parts = append(parts, time.Weekday(v).String()[:3])
		case v == 0:
			parts = append(parts, "Today")
		case v == 1:
			parts = append(parts, "Tomorrow")
		default:
			parts = append(parts, fmt.Sprintf("+%dd", v))
		}
	}
	return strings.Join(parts, ", ")
}

// WindowLabel renders the time window as "06:00-18:00"
func (p Preset) WindowLabel() string {
	return trimSeconds(p.StartTime) + "-" + trimSeconds(p.EndTime)
}

// DefaultPreset returns the first preset flagged default, else the first preset
func DefaultPreset(presets []Preset) (Preset, bool) {
	for _, p := range presets {
		if p.IsDefault {
			return p, true
		}
	}
	if len(presets) == 0 {
		return Preset{}, false
	}
	return presets[0], true
}

// FindPreset returns the preset with the given id
func FindPreset(presets []Preset, id int) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// NormalizeTime expands "HH:MM" to "HH:MM:SS" and leaves other input untouched
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("15:04", s); err == nil {
		return s + ":00"
	}
	return s
}

func trimSeconds(s string) string {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t.Format("15:04")
	}
	return s
}

func validateDays(kind DaySelectionType, values []int) error {
	if len(values) == 0 {
		return errorf("select at least one day")
	}
	switch kind {
	case DaysOffsets:
		for _, v := range values {
			if v < 0 || v > MaxDayOffset {
				return errorf("day offset %d out of range 0-%d", v, MaxDayOffset)
			}
		}
	case DaysWeekdays:
		for _, v := range values {
			if v < 0 || v > 6 {
				return errorf("weekday %d out of range 0-6", v)
			}
		}
	default:
		return errorf("day selection type must be offsets or weekdays")
	}
	return nil
}

func validateWindow(start, end string) error {
	s, err := time.Parse(TimeLayout, start)
	if err != nil {
		return errorf("start time %q must be HH:MM:SS", start)
	}
	e, err := time.Parse(TimeLayout, end)
	if err != nil {
		return errorf("end time %q must be HH:MM:SS", end)
	}
	if !s.Before(e) {
		return errorf("start time must be before end time")
	}
	return nil
}

// ABOUTME: Surf spot entity and client-side search/selection helpers
// ABOUTME: Search matches name, region or state case-insensitively

package models

import (
	"slices"
	"strconv"
	"strings"
)

// Spot is a surf location known to the backend
type Spot struct {
	ID        int     `json:"spot_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Region    string  `json:"region,omitempty"`
	State     string  `json:"state,omitempty"`
}

// Place returns "region, state" with whichever parts are present
func (s Spot) Place() string {
	switch {
	case s.Region != "" && s.State != "":
		return s.Region + ", " + s.State
	case s.Region != "":
		return s.Region
	default:
		return s.State
	}
}

// Matches reports whether query is a case-insensitive substring of the
// spot's name, region or state. An empty query matches everything.
func (s Spot) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Region), q) ||
		strings.Contains(strings.ToLower(s.State), q)
}

// FilterSpots returns the spots matching query, preserving order
func FilterSpots(spots []Spot, query string) []Spot {
	out := make([]Spot, 0, len(spots))
	for _, s := range spots {
		if s.Matches(query) {
			out = append(out, s)
		}
	}
	return out
}

// FindSpot returns the spot with the given id
func FindSpot(spots []Spot, id int) (Spot, bool) {
	for _, s := range spots {
		if s.ID == id {
			return s, true
		}
	}
	return Spot{}, false
}

// ToggleSpot adds id to selected when absent and removes it when present
func ToggleSpot(selected []int, id int) []int {
	if i := slices.Index(selected, id); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1)
	}
	return append(slices.Clone(selected), id)
}

// SpotNames maps ids to names, keeping ids it cannot resolve as "#id"
func SpotNames(spots []Spot, ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := FindSpot(spots, id); ok {
			names = append(names, s.Name)
		} else {
			names = append(names, "#"+strconv.Itoa(id))
		}
	}
	return names
}

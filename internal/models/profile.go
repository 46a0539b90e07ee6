// ABOUTME: Profile entity and partial update payload
// ABOUTME: Includes surf level and stance enums with display labels

package models

import (
	"strings"

	"github.com/google/uuid"
)

// SurfLevel is the self-declared skill level stored on the profile
type SurfLevel string

const (
	SurfLevelBeginner     SurfLevel = "iniciante"
	SurfLevelIntermediate SurfLevel = "intermediario"
	SurfLevelAdvanced     SurfLevel = "avancado"
)

// SurfLevels lists the accepted levels in display order
var SurfLevels = []SurfLevel{SurfLevelBeginner, SurfLevelIntermediate, SurfLevelAdvanced}

// Label returns the display name of the level
func (l SurfLevel) Label() string {
	switch l {
	case SurfLevelBeginner:
		return "Beginner"
	case SurfLevelIntermediate:
		return "Intermediate"
	case SurfLevelAdvanced:
		return "Advanced"
	case "":
		return "Not set"
	default:
		return string(l)
	}
}

// Valid reports whether l is one of the accepted levels
func (l SurfLevel) Valid() bool {
	for _, v := range SurfLevels {
		if l == v {
			return true
		}
	}
	return false
}

// Stance is the rider's foot stance
type Stance string

const (
	StanceRegular Stance = "regular"
	StanceGoofy   Stance = "goofy"
)

// Stances lists the accepted stances in display order
var Stances = []Stance{StanceRegular, StanceGoofy}

// Label returns the display name of the stance
func (s Stance) Label() string {
	switch s {
	case StanceRegular:
		return "Regular"
	case StanceGoofy:
		return "Goofy"
	case "":
		return "Not set"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the accepted stances
func (s Stance) Valid() bool {
	return s == StanceRegular || s == StanceGoofy
}

// Profile is the backend's per-user profile record
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Location  string    `json:"location,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	SurfLevel SurfLevel `json:"surf_level,omitempty"`
	Stance    Stance    `json:"stance,omitempty"`
}

// ProfileUpdate carries only the fields being changed
type ProfileUpdate struct {
	Name      *string    `json:"name,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	SurfLevel *SurfLevel `json:"surf_level,omitempty"`
	Stance    *Stance    `json:"stance,omitempty"`
}

// Empty reports whether the update changes nothing
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Location == nil && u.Bio == nil && u.SurfLevel == nil && u.Stance == nil
}

// Validate checks enum fields and rejects a blank name
func (u ProfileUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return errorf("name cannot be empty")
	}
	if u.SurfLevel != nil && !u.SurfLevel.Valid() {
		return errorf("surf level must be one of iniciante, intermediario, avancado")
	}
	if u.Stance != nil && !u.Stance.Valid() {
		return errorf("stance must be regular or goofy")
	}
	return nil
}

// Diff builds an update holding the trimmed, non-empty values of edited that
// differ from p.
func (p Profile) Diff(edited Profile) ProfileUpdate {
	var u ProfileUpdate
	if v := strings.TrimSpace(edited.Name); v != "" && v != p.Name {
		u.Name = &v
	}
	if v := strings.TrimSpace(edited.Location); v != "" && v != p.Location {
		u.Location = &v
	}
	if v := strings.TrimSpace(edited.Bio); v != "" && v != p.Bio {
		u.Bio = &v
	}
	if v := edited.SurfLevel; v != "" && v != p.SurfLevel {
		u.SurfLevel = &v
	}
	if v := edited.Stance; v != "" && v != p.Stance {
		u.Stance = &v
	}
	return u
}

// Apply returns p with the update's fields applied
func (p Profile) Apply(u ProfileUpdate) Profile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.SurfLevel != nil {
		p.SurfLevel = *u.SurfLevel
	}
	if u.Stance != nil {
		p.Stance = *u.Stance
	}
	return p
}

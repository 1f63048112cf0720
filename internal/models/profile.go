package models

import (
	"github.com/google/uuid"
)

// Theme represents a UI theme preference
type Theme string

const (
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
	ThemeSystem Theme = "system"
)

// DefaultTheme is applied when no theme has ever been stored
const DefaultTheme = ThemeDark

// EnergyLevel represents a self-reported energy level for a day
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Profile represents the authenticated user's persistent settings and
// gamification state. Level is always derived from XP; the two are never
// updated independently.
type Profile struct {
	ID         uuid.UUID              `json:"id"`
	Name       string                 `json:"name"`
	Email      string                 `json:"email"`
	Avatar     string                 `json:"avatar,omitempty"`
	XP         int                    `json:"xp"`
	Level      int                    `json:"level"`
	Theme      Theme                  `json:"theme"`
	FocusGoal  string                 `json:"focus_goal,omitempty"`
	Categories []string               `json:"categories"`
	Energy     map[string]EnergyLevel `json:"energy,omitempty"` // date (YYYY-MM-DD) -> level
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.Categories = append([]string(nil), p.Categories...)
	if p.Energy != nil {
		out.Energy = make(map[string]EnergyLevel, len(p.Energy))
		for k, v := range p.Energy {
			out.Energy[k] = v
		}
	}
	return out
}

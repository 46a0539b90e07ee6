// ABOUTME: Manages the recently viewed spots list for the TUI spot picker
// ABOUTME: Stores spot ids in the config directory, most recent first

package recentspots

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

// MaxRecentSpots is the maximum number of recent spots to keep
const MaxRecentSpots = 5

// RecentSpots manages the list of recently viewed spots
type RecentSpots struct {
	configDir string
	ids       []int
}

type recentData struct {
	Spots []int `json:"spots"`
}

// New creates a new RecentSpots manager with the given config directory.
// An empty directory keeps the list in memory only.
func New(configDir string) *RecentSpots {
	return &RecentSpots{configDir: configDir}
}

// configFile returns the path to the recent spots JSON
func (rs *RecentSpots) configFile() string {
	return filepath.Join(rs.configDir, "recent_spots.json")
}

// Load reads the recent spots list from disk
func (rs *RecentSpots) Load() ([]int, error) {
	if rs.configDir == "" {
		if rs.ids == nil {
			rs.ids = []int{}
		}
		return rs.ids, nil
	}

	data, err := os.ReadFile(rs.configFile())
	if os.IsNotExist(err) {
		rs.ids = []int{}
		return rs.ids, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		rs.ids = []int{}
		return rs.ids, nil
	}
	rs.ids = recent.Spots
	if rs.ids == nil {
		rs.ids = []int{}
	}
	return rs.ids, nil
}

// Save writes the recent spots list to disk
func (rs *RecentSpots) Save(ids []int) error {
	if len(ids) > MaxRecentSpots {
		ids = ids[:MaxRecentSpots]
	}
	rs.ids = ids
	if rs.configDir == "" {
		return nil
	}

	if err := os.MkdirAll(rs.configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recentData{Spots: ids}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rs.configFile(), data, 0600)
}

// Add moves id to the front of the list
func (rs *RecentSpots) Add(id int) error {
	if rs.ids == nil {
		if _, err := rs.Load(); err != nil {
			rs.ids = []int{}
		}
	}

	next := make([]int, 0, len(rs.ids)+1)
	next = append(next, id)
	for _, existing := range rs.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	return rs.Save(next)
}

// Resolve maps the recent ids to spots, dropping ids the backend no longer lists
func (rs *RecentSpots) Resolve(spots []models.Spot) []models.Spot {
	if rs.ids == nil {
		rs.Load()
	}
	out := make([]models.Spot, 0, len(rs.ids))
	for _, id := range rs.ids {
		if s, ok := models.FindSpot(spots, id); ok {
			out = append(out, s)
		}
	}
	return out
}

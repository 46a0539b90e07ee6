// ABOUTME: Handlers for the fake backend's profile, spot, preset and preference routes
// ABOUTME: Also serves forecasts and deterministic recommendations

package apitest

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]fieldError{
		"detail": {{Loc: []string{"body", field}, Msg: msg, Type: "value_error"}},
	})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	spots := slices.Clone(s.spots)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, spots)
}

func (s *Server) handleSpot(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	spot, ok := models.FindSpot(s.spots, id)
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Spot not found")
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.profiles[userID(r)]
	var out models.Profile
	if ok {
		out = *p
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var u models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if u.SurfLevel != nil && !u.SurfLevel.Valid() {
		writeFieldError(w, "surf_level", "Input should be 'iniciante', 'intermediario' or 'avancado'")
		return
	}
	if u.Stance != nil && !u.Stance.Valid() {
		writeFieldError(w, "stance", "Input should be 'regular' or 'goofy'")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}
	*p = p.Apply(u)
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	presets := slices.Clone(s.presets[userID(r)])
	s.mu.Unlock()
	if presets == nil {
		presets = []models.Preset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var p models.PresetCreate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := p.Validate(); err != nil {
		writeFieldError(w, "preset", err.Error())
		return
	}

	s.mu.Lock()
	created := s.addPresetLocked(userID(r), p)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) addPresetLocked(user uuid.UUID, p models.PresetCreate) models.Preset {
	preset := models.Preset{
		ID:                 s.nextPresetID,
		UserID:             user,
		Name:               p.Name,
		SpotIDs:            slices.Clone(p.SpotIDs),
		DaySelectionType:   p.DaySelectionType,
		DaySelectionValues: slices.Clone(p.DaySelectionValues),
		StartTime:          p.StartTime,
		EndTime:            p.EndTime,
		IsDefault:          p.IsDefault,
	}
	s.nextPresetID++
	s.presets[user] = append(s.presets[user], preset)
	return preset
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var u models.PresetUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	presets := s.presets[userID(r)]
	i := slices.IndexFunc(presets, func(p models.Preset) bool { return p.ID == id })
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Preset not found")
		return
	}
	if err := u.Validate(presets[i]); err != nil {
		writeFieldError(w, "preset", err.Error())
		return
	}
	presets[i] = presets[i].Apply(u)
	writeJSON(w, http.StatusOK, presets[i])
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	user := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	presets := s.presets[user]
	i := slices.IndexFunc(presets, func(p models.Preset) bool { return p.ID == id })
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Preset not found")
		return
	}
	s.presets[user] = slices.Delete(presets, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	user := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := models.FindSpot(s.spots, id); !ok {
		writeDetail(w, http.StatusNotFound, "Spot not found")
		return
	}
	pref, ok := s.prefs[user][id]
	if !ok {
		pref = models.Preference{SpotID: id, UserID: user, IsActive: true}
	}
	writeJSON(w, http.StatusOK, pref)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	user := userID(r)
	var u models.PreferenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := u.Validate(); err != nil {
		writeFieldError(w, "preferences", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := models.FindSpot(s.spots, id); !ok {
		writeDetail(w, http.StatusNotFound, "Spot not found")
		return
	}
	if s.prefs[user] == nil {
		s.prefs[user] = make(map[int]models.Preference)
	}
	pref, ok := s.prefs[user][id]
	if !ok {
		pref = models.Preference{SpotID: id, UserID: user, IsActive: true}
	}
	if u.MinWaveHeight != nil {
		pref.MinWaveHeight = u.MinWaveHeight
	}
	if u.MaxWaveHeight != nil {
		pref.MaxWaveHeight = u.MaxWaveHeight
	}
	if u.MaxWindSpeed != nil {
		pref.MaxWindSpeed = u.MaxWindSpeed
	}
	if u.MinWaterTemperature != nil {
		pref.MinWaterTemperature = u.MinWaterTemperature
	}
	if u.IsActive != nil {
		pref.IsActive = *u.IsActive
	}
	s.prefs[user][id] = pref
	writeJSON(w, http.StatusOK, pref)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	spot, ok := models.FindSpot(s.spots, id)
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Spot not found")
		return
	}
	writeJSON(w, http.StatusOK, forecastFor(spot, 3, time.Now().UTC()))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFieldError(w, "request", err.Error())
		return
	}
	start, _ := time.Parse(models.TimeLayout, req.TimeWindow.Start)
	end, _ := time.Parse(models.TimeLayout, req.TimeWindow.End)

	s.mu.Lock()
	spots := slices.Clone(s.spots)
	s.mu.Unlock()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var out []models.Recommendation
	for _, id := range req.SpotIDs {
		spot, ok := models.FindSpot(spots, id)
		if !ok {
			continue
		}
		for _, day := range req.DaySelection.Values {
			date := today.AddDate(0, 0, day)
			for _, h := range forecastHours {
				if h < start.Hour() || h > end.Hour() {
					continue
				}
				sc := score(id, day, h)
				out = append(out, models.Recommendation{
					SpotID:       id,
					SpotName:     spot.Name,
					Timestamp:    date.Add(time.Duration(h) * time.Hour),
					OverallScore: sc,
					DetailedScores: models.DetailedScores{
						Wave: sc, Wind: sc - 5, Tide: 60, AirTemperature: 70, WaterTemperature: 65,
					},
				})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b models.Recommendation) int {
		return cmp.Compare(b.OverallScore, a.OverallScore)
	})
	if len(out) > req.Limit {
		out = out[:req.Limit]
	}
	if out == nil {
		out = []models.Recommendation{}
	}
	writeJSON(w, http.StatusOK, out)
}

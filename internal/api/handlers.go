package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/go-chi/chi/v5"
)

type soundRequest struct {
	SoundType string `json:"soundType"`
}

type soundResponse struct {
	SoundType synth.Profile `json:"soundType"`
}

type soundInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rebuildResponse struct {
	Scheduled int `json:"scheduled"`
}

type resetResponse struct {
	Reset int `json:"reset"`
}

func (s *server) listMedicines(w http.ResponseWriter, _ *http.Request) {
	meds, err := s.Medicines.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}

func (s *server) addMedicine(w http.ResponseWriter, r *http.Request) {
	var in medicine.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	m, err := s.Medicines.Add(in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.afterMutation()
	writeJSON(w, http.StatusCreated, m)
}

func (s *server) updateMedicine(w http.ResponseWriter, r *http.Request) {
	var in medicine.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	m, err := s.Medicines.Update(chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.afterMutation()
	writeJSON(w, http.StatusOK, m)
}

func (s *server) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	if err := s.Medicines.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	s.afterMutation()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) toggleTaken(w http.ResponseWriter, r *http.Request) {
	m, err := s.Medicines.ToggleTaken(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.afterMutation()
	writeJSON(w, http.StatusOK, m)
}

func (s *server) resetTaken(w http.ResponseWriter, _ *http.Request) {
	n, err := s.Medicines.ResetTaken()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.afterMutation()
	writeJSON(w, http.StatusOK, resetResponse{Reset: n})
}

func (s *server) getSchedule(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Scheduler.Pending())
}

func (s *server) rebuild(w http.ResponseWriter, _ *http.Request) {
	if s.Rebuild == nil {
		http.Error(w, "rebuild not available", http.StatusServiceUnavailable)
		return
	}
	n, err := s.Rebuild()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rebuildResponse{Scheduled: n})
}

func (s *server) getSound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, soundResponse{SoundType: s.Settings.SoundProfile()})
}

func (s *server) putSound(w http.ResponseWriter, r *http.Request) {
	var req soundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	p, err := synth.ParseProfile(req.SoundType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Settings.SetSoundProfile(p); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, soundResponse{SoundType: p})
}

func (s *server) listSounds(w http.ResponseWriter, _ *http.Request) {
	names := synth.Names()
	out := make([]soundInfo, 0, len(names))
	for _, n := range names {
		out = append(out, soundInfo{Name: n, Description: synth.Profile(n).Description()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) preview(w http.ResponseWriter, r *http.Request) {
	p, err := synth.ParseProfile(chi.URLParam(r, "profile"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Scheduler.PreviewSound(p)
	w.WriteHeader(http.StatusAccepted)
}

func (s *server) history(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeJSON(w, http.StatusOK, []eventlog.Entry{})
		return
	}
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "days must be a non-negative integer", http.StatusBadRequest)
			return
		}
		days = n
	}
	entries, err := s.History.Entries(days)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// afterMutation rebuilds the schedule. The mutation itself already
// succeeded, so a rebuild failure is only logged.
func (s *server) afterMutation() {
	if s.Rebuild == nil {
		return
	}
	if _, err := s.Rebuild(); err != nil {
		s.Logger.Warn().Err(err).Msg("schedule rebuild after mutation failed")
	}
}

func (s *server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, medicine.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, medicine.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.Logger.Error().Err(err).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package api is the daemon's local HTTP control surface. Every change to
// the medicine list goes through the store and then triggers a schedule
// rebuild.
package api

import (
	"net/http"

	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/metrics"
	"github.com/Mavwarf/medtime/internal/schedule"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Scheduler is the part of the schedule manager the API reads.
type Scheduler interface {
	Pending() []schedule.Entry
	PreviewSound(p synth.Profile)
}

// SoundSettings reads and writes the selected alert sound.
type SoundSettings interface {
	SoundProfile() synth.Profile
	SetSoundProfile(p synth.Profile) error
}

// History lists recorded alerts.
type History interface {
	Entries(days int) ([]eventlog.Entry, error)
}

type Options struct {
	Medicines medicine.Store
	Settings  SoundSettings
	Scheduler Scheduler
	History   History          // nil disables /history
	Metrics   *metrics.Metrics // nil disables /metrics

	// Rebuild re-derives the schedule from the store. It is called after
	// every successful medicine mutation.
	Rebuild func() (int, error)
	Logger  zerolog.Logger
}

type server struct {
	Options
}

// NewRouter returns the control API handler.
func NewRouter(opts Options) http.Handler {
	s := &server{Options: opts}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/medicines", func(mr chi.Router) {
		mr.Get("/", s.listMedicines)
		mr.Post("/", s.addMedicine)
		mr.Post("/reset", s.resetTaken)
		mr.Put("/{id}", s.updateMedicine)
		mr.Delete("/{id}", s.deleteMedicine)
		mr.Post("/{id}/toggle", s.toggleTaken)
	})

	r.Get("/schedule", s.getSchedule)
	r.Post("/schedule/rebuild", s.rebuild)

	r.Get("/settings/sound", s.getSound)
	r.Put("/settings/sound", s.putSound)
	r.Get("/sounds", s.listSounds)
	r.Post("/preview/{profile}", s.preview)

	r.Get("/history", s.history)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	return r
}

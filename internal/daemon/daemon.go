// Package daemon wires the stores, the dispatcher and the schedule manager
// into a long-running reminder service.
package daemon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/Mavwarf/medtime/internal/api"
	"github.com/Mavwarf/medtime/internal/audio"
	"github.com/Mavwarf/medtime/internal/config"
	"github.com/Mavwarf/medtime/internal/cooldown"
	"github.com/Mavwarf/medtime/internal/db"
	"github.com/Mavwarf/medtime/internal/discord"
	"github.com/Mavwarf/medtime/internal/dispatch"
	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/metrics"
	"github.com/Mavwarf/medtime/internal/mqtt"
	"github.com/Mavwarf/medtime/internal/paths"
	"github.com/Mavwarf/medtime/internal/plugin"
	"github.com/Mavwarf/medtime/internal/schedule"
	"github.com/Mavwarf/medtime/internal/settings"
	"github.com/Mavwarf/medtime/internal/silent"
	"github.com/Mavwarf/medtime/internal/slack"
	"github.com/Mavwarf/medtime/internal/speech"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/Mavwarf/medtime/internal/telegram"
	"github.com/Mavwarf/medtime/internal/toast"
	"github.com/Mavwarf/medtime/internal/webhook"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Service is the reminder daemon.
type Service struct {
	cfg config.Config
	log zerolog.Logger
	db  *sql.DB

	Medicines  *medicine.SQLiteStore
	History    *eventlog.SQLiteStore
	Settings   *settings.Store
	Mute       *silent.Mute
	Metrics    *metrics.Metrics
	Engine     *audio.Engine
	Dispatcher *dispatch.Dispatcher
	Manager    *schedule.Manager

	mu      sync.Mutex // serializes Reload
	lastRev int64
}

type options struct {
	output       audio.Output
	notifier     dispatch.Notifier
	fs           afero.Fs
	settingsPath string
	mutePath     string
	timers       schedule.Timers
	clock        func() time.Time
}

// Option overrides a default collaborator, mostly for tests.
type Option func(*options)

// WithOutput replaces the oto audio output.
func WithOutput(out audio.Output) Option {
	return func(o *options) { o.output = out }
}

// WithNotifier replaces the desktop toast notifier.
func WithNotifier(n dispatch.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithSettings stores settings at path on fs.
func WithSettings(fs afero.Fs, path string) Option {
	return func(o *options) { o.fs, o.settingsPath = fs, path }
}

// WithMutePath replaces the mute window state file.
func WithMutePath(path string) Option {
	return func(o *options) { o.mutePath = path }
}

// WithTimers replaces the reminder timers.
func WithTimers(t schedule.Timers) Option {
	return func(o *options) { o.timers = t }
}

// WithClock replaces time.Now for scheduling.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// New opens the database at cfg.StoragePath() and builds every component.
// Nothing is scheduled until Reload or Run.
func New(cfg config.Config, logger zerolog.Logger, opts ...Option) (*Service, error) {
	o := options{
		notifier:     toast.Notifier{Enabled: cfg.Options.Notifications},
		fs:           afero.NewOsFs(),
		settingsPath: cfg.DataFile(paths.SettingsFileName),
		mutePath:     cfg.DataFile(paths.SilentFileName),
		timers:       schedule.RealTimers{},
		clock:        time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}

	conn, err := db.Open(cfg.StoragePath())
	if err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, log: logger, db: conn, lastRev: -1}

	if s.Medicines, err = medicine.NewSQLiteStore(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if s.History, err = eventlog.NewSQLiteStore(conn); err != nil {
		conn.Close()
		return nil, err
	}
	s.Settings = settings.NewStore(o.fs, o.settingsPath, logger)
	s.Mute = silent.New(o.mutePath)
	s.Metrics = metrics.New()
	s.Engine = audio.NewEngine(o.output, logger)

	player := volumePlayer{engine: s.Engine, settings: s.Settings, fallback: cfg.Options.DefaultVolume}
	dopts := dispatch.Options{
		Player:   player,
		Notifier: o.notifier,
		Profiles: s.Settings,
		Template: cfg.Options.MessageTemplate,
		History:  s.History,
		Mute:     s.Mute,
		Metrics:  s.Metrics,
		Logger:   logger,
	}
	if p := mqtt.NewPublisher(cfg.MQTT); p != nil {
		dopts.Publishers = append(dopts.Publishers, p)
	}
	if w := webhook.New(cfg.Webhook); w != nil {
		dopts.Publishers = append(dopts.Publishers, w)
	}
	if h := plugin.New(cfg.Options.HookCommand, cfg.Options.HookTimeout); h != nil {
		dopts.Publishers = append(dopts.Publishers, h)
	}
	if c := discord.New(cfg.Chat.DiscordWebhook); c != nil {
		dopts.Messengers = append(dopts.Messengers, c)
	}
	if c := slack.New(cfg.Chat.SlackWebhook); c != nil {
		dopts.Messengers = append(dopts.Messengers, c)
	}
	if c := telegram.New(cfg.Chat.TelegramToken, cfg.Chat.TelegramChatID); c != nil {
		dopts.Messengers = append(dopts.Messengers, c)
	}
	if cfg.Options.Speak {
		dopts.Speaker = speech.Speaker{Volume: player.volume}
	}
	s.Dispatcher = dispatch.New(dopts)
	guard, err := cooldown.New(conn, cooldown.DefaultWindow, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.Manager = schedule.New(claimingDispatcher{Dispatcher: s.Dispatcher, guard: guard, log: logger}, logger,
		schedule.WithTimers(o.timers),
		schedule.WithClock(o.clock),
		schedule.WithMetrics(s.Metrics))
	return s, nil
}

// Reload rebuilds the schedule from the medicine store. When the list
// cannot be read the previous schedule stays in place.
func (s *Service) Reload() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev, err := s.Medicines.Revision()
	if err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	meds, err := s.Medicines.List()
	if err != nil {
		return 0, fmt.Errorf("list medicines: %w", err)
	}
	n := s.Manager.Rebuild(meds)
	s.lastRev = rev
	s.log.Info().Int("scheduled", n).Int("medicines", len(meds)).Msg("schedule reloaded")
	return n, nil
}

// checkRevision reloads when another process changed the medicine list.
func (s *Service) checkRevision() {
	rev, err := s.Medicines.Revision()
	if err != nil {
		s.log.Warn().Err(err).Msg("revision check failed")
		return
	}
	s.mu.Lock()
	changed := rev != s.lastRev
	s.mu.Unlock()
	if !changed {
		return
	}
	if _, err := s.Reload(); err != nil {
		s.log.Warn().Err(err).Msg("reload failed, keeping previous schedule")
	}
}

// Handler returns the control API bound to this service.
func (s *Service) Handler() http.Handler {
	return api.NewRouter(api.Options{
		Medicines: s.Medicines,
		Settings:  s.Settings,
		Scheduler: s.Manager,
		History:   s.History,
		Metrics:   s.Metrics,
		Rebuild:   s.Reload,
		Logger:    s.log,
	})
}

// Run schedules the current list and keeps it current until ctx is done:
// it polls the store revision, reloads on the platform reload signal, and
// serves the control API when an address is configured.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.Reload(); err != nil {
		s.log.Warn().Err(err).Msg("initial schedule failed")
	}
	defer s.Manager.CancelAll()

	errc := make(chan error, 1)
	var srv *http.Server
	if addr := s.cfg.Options.HTTPAddr; addr != "" {
		srv = &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
		s.log.Info().Str("addr", addr).Msg("control api listening")
	}

	sigc := make(chan os.Signal, 1)
	if sigs := reloadSignals(); len(sigs) > 0 {
		signal.Notify(sigc, sigs...)
		defer signal.Stop(sigc)
	}

	poll := time.Duration(s.cfg.Options.PollSeconds) * time.Second
	if poll <= 0 {
		poll = config.DefaultPollSeconds * time.Second
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				srv.Shutdown(shutdownCtx)
				cancel()
			}
			return nil
		case err := <-errc:
			return fmt.Errorf("control api: %w", err)
		case sig := <-sigc:
			s.log.Info().Str("signal", sig.String()).Msg("reload requested")
			if _, err := s.Reload(); err != nil {
				s.log.Warn().Err(err).Msg("reload failed, keeping previous schedule")
			}
		case <-ticker.C:
			s.checkRevision()
		}
	}
}

// Close cancels pending reminders and closes the database.
func (s *Service) Close() error {
	s.Manager.CancelAll()
	return s.db.Close()
}

// claimingDispatcher fires a reminder only when no other medtime process
// sharing the data directory has just fired it.
type claimingDispatcher struct {
	*dispatch.Dispatcher
	guard *cooldown.Guard
	log   zerolog.Logger
}

func (c claimingDispatcher) Fire(m medicine.Medicine) {
	if !c.guard.Claim(m.ID) {
		c.log.Debug().Str("medicine", m.Name).Msg("already fired by another process")
		return
	}
	c.Dispatcher.Fire(m)
}

// volumePlayer applies the current volume before every playback. The
// settings override wins over the config default.
type volumePlayer struct {
	engine   *audio.Engine
	settings *settings.Store
	fallback int
}

func (p volumePlayer) Play(events []synth.ToneEvent, base float64) {
	p.engine.SetVolume(float64(p.volume()) / 100)
	p.engine.Play(events, base)
}

func (p volumePlayer) volume() int {
	if v, ok := p.settings.Volume(); ok {
		return v
	}
	return p.fallback
}

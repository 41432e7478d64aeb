// Package dispatch fires a single reminder: the alert sound, the desktop
// notification, and the best-effort side channels (speech, history,
// remote publishers, metrics).
package dispatch

import (
	"encoding/json"
	"time"

	"github.com/Mavwarf/medtime/internal/config"
	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/metrics"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/Mavwarf/medtime/internal/tmpl"
	"github.com/rs/zerolog"
)

// Title is the fixed heading of every reminder notification.
const Title = "Time for your dose!"

// Player realizes tone events as sound without blocking.
type Player interface {
	Play(events []synth.ToneEvent, base float64)
}

// Notifier raises desktop notifications.
type Notifier interface {
	Permitted() bool
	Show(title, body string) error
}

// ProfileSource supplies the currently selected alert sound.
type ProfileSource interface {
	SoundProfile() synth.Profile
}

// DoseEvent is the JSON payload handed to every Publisher when a reminder
// fires.
type DoseEvent struct {
	MedicineID   string    `json:"medicine_id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Time         string    `json:"time"`
	FoodRelation string    `json:"food_relation,omitempty"`
	Body         string    `json:"body"`
	Muted        bool      `json:"muted"`
	FiredAt      time.Time `json:"fired_at"`
}

// Publisher forwards encoded dose events to a remote listener. Name labels
// failures in logs and metrics.
type Publisher interface {
	Name() string
	PublishDose(payload []byte) error
}

// Messenger delivers the reminder text to a chat service.
type Messenger interface {
	Name() string
	Send(text string) error
}

// Speaker reads reminder text aloud.
type Speaker interface {
	Say(text string) error
}

// Recorder stores alert history.
type Recorder interface {
	Log(e eventlog.Entry) error
}

// Muter reports whether the mute window is open.
type Muter interface {
	Active() bool
}

// Options wires a Dispatcher. Player, Notifier and Profiles are required;
// the rest may be nil.
type Options struct {
	Player   Player
	Notifier Notifier
	Profiles ProfileSource
	Template string

	Publishers []Publisher
	Messengers []Messenger
	Speaker    Speaker
	History    Recorder
	Mute       Muter
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// Dispatcher fires reminders and sound previews.
type Dispatcher struct {
	player     Player
	notifier   Notifier
	profiles   ProfileSource
	template   string
	publishers []Publisher
	messengers []Messenger
	speaker    Speaker
	history    Recorder
	mute       Muter
	metrics    *metrics.Metrics
	log        zerolog.Logger

	now      func() time.Time
	sleep    func(time.Duration)
	runAsync func(func())
}

// New returns a Dispatcher. An empty Template uses the default body.
func New(opts Options) *Dispatcher {
	if opts.Template == "" {
		opts.Template = config.DefaultMessageTemplate
	}
	return &Dispatcher{
		player:     opts.Player,
		notifier:   opts.Notifier,
		profiles:   opts.Profiles,
		template:   opts.Template,
		publishers: opts.Publishers,
		messengers: opts.Messengers,
		speaker:    opts.Speaker,
		history:    opts.History,
		mute:       opts.Mute,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		now:        time.Now,
		sleep:      time.Sleep,
		runAsync:   func(fn func()) { go fn() },
	}
}

// Body renders the notification text for m.
func (d *Dispatcher) Body(m medicine.Medicine) string {
	return tmpl.Expand(d.template, tmpl.Vars{
		Name:   m.Name,
		Dosage: m.Dosage,
		Time:   m.Time,
		Food:   m.FoodRelation.Label(),
	})
}

// Fire alerts the user that m is due. It never blocks on the notification
// or remote channels and never fails: every side effect is best-effort.
func (d *Dispatcher) Fire(m medicine.Medicine) {
	profile := d.profiles.SoundProfile()
	muted := d.mute != nil && d.mute.Active()
	body := d.Body(m)

	if !muted {
		events := synth.Synthesize(profile)
		d.player.Play(events, 0)
		d.speak(m, body, synth.Length(events))
	}

	notified := false
	if d.notifier.Permitted() {
		notified = true
		d.runAsync(func() {
			if err := d.notifier.Show(Title, body); err != nil {
				d.log.Warn().Err(err).Str("medicine", m.Name).Msg("notification failed")
				d.metrics.Failure("notification")
			}
		})
	} else {
		d.log.Debug().Str("medicine", m.Name).Msg("notifications not permitted, sound only")
	}

	kind := eventlog.KindFired
	if muted {
		kind = eventlog.KindMuted
	}
	d.log.Info().
		Str("medicine", m.Name).
		Str("dosage", m.Dosage).
		Str("profile", string(profile)).
		Bool("muted", muted).
		Bool("notified", notified).
		Msg("dose due")

	d.record(eventlog.Entry{
		Time:       d.now(),
		Kind:       kind,
		MedicineID: m.ID,
		Name:       m.Name,
		Dosage:     m.Dosage,
		Profile:    string(profile),
		Notified:   notified,
	})

	d.publish(DoseEvent{
		MedicineID:   m.ID,
		Name:         m.Name,
		Dosage:       m.Dosage,
		Time:         m.Time,
		FoodRelation: string(m.FoodRelation),
		Body:         body,
		Muted:        muted,
		FiredAt:      d.now(),
	})
	d.message(m, body)
}

func (d *Dispatcher) message(m medicine.Medicine, body string) {
	text := Title + " " + body
	for _, ms := range d.messengers {
		d.runAsync(func() {
			if err := ms.Send(text); err != nil {
				d.log.Warn().Err(err).Str("channel", ms.Name()).Str("medicine", m.Name).Msg("message failed")
				d.metrics.Failure(ms.Name())
			}
		})
	}
}

// speak reads body aloud once the alert sound has finished, so the two
// never overlap.
func (d *Dispatcher) speak(m medicine.Medicine, body string, after float64) {
	if d.speaker == nil {
		return
	}
	d.runAsync(func() {
		d.sleep(time.Duration(after * float64(time.Second)))
		if err := d.speaker.Say(body); err != nil {
			d.log.Warn().Err(err).Str("medicine", m.Name).Msg("speech failed")
			d.metrics.Failure("speech")
		}
	})
}

func (d *Dispatcher) publish(ev DoseEvent) {
	if len(d.publishers) == 0 {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		d.log.Error().Err(err).Msg("encode dose event")
		return
	}
	for _, p := range d.publishers {
		d.runAsync(func() {
			if err := p.PublishDose(payload); err != nil {
				d.log.Warn().Err(err).Str("channel", p.Name()).Str("medicine", ev.Name).Msg("publish failed")
				d.metrics.Failure(p.Name())
			}
		})
	}
}

// PreviewSound plays profile once with no notification.
func (d *Dispatcher) PreviewSound(profile synth.Profile) {
	if !profile.Valid() {
		profile = synth.DefaultProfile
	}
	d.player.Play(synth.Synthesize(profile), 0)
	d.record(eventlog.Entry{
		Time:    d.now(),
		Kind:    eventlog.KindPreview,
		Profile: string(profile),
	})
}

func (d *Dispatcher) record(e eventlog.Entry) {
	d.metrics.Alert(e.Kind.String())
	if d.history == nil {
		return
	}
	if err := d.history.Log(e); err != nil {
		d.log.Warn().Err(err).Msg("history write failed")
		d.metrics.Failure("history")
	}
}

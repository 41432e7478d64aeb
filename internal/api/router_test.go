package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Mavwarf/medtime/internal/db"
	"github.com/Mavwarf/medtime/internal/eventlog"
	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/metrics"
	"github.com/Mavwarf/medtime/internal/schedule"
	"github.com/Mavwarf/medtime/internal/settings"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type nopHandle struct{}

func (nopHandle) Cancel() {}

type nopTimers struct{}

func (nopTimers) Schedule(time.Duration, func()) schedule.Handle { return nopHandle{} }

type fakeDispatcher struct{ previews []synth.Profile }

func (d *fakeDispatcher) Fire(medicine.Medicine)        {}
func (d *fakeDispatcher) PreviewSound(p synth.Profile) { d.previews = append(d.previews, p) }

type testEnv struct {
	srv        *httptest.Server
	store      *medicine.SQLiteStore
	history    *eventlog.SQLiteStore
	manager    *schedule.Manager
	dispatcher *fakeDispatcher
	rebuilds   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "medtime.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	env := &testEnv{dispatcher: &fakeDispatcher{}}
	if env.store, err = medicine.NewSQLiteStore(conn); err != nil {
		t.Fatal(err)
	}
	if env.history, err = eventlog.NewSQLiteStore(conn); err != nil {
		t.Fatal(err)
	}
	clock := func() time.Time { return time.Date(2026, 3, 1, 6, 0, 0, 0, time.Local) }
	env.manager = schedule.New(env.dispatcher, zerolog.Nop(),
		schedule.WithTimers(nopTimers{}), schedule.WithClock(clock))

	handler := NewRouter(Options{
		Medicines: env.store,
		Settings:  settings.NewStore(afero.NewMemMapFs(), "/medtime/settings.json", zerolog.Nop()),
		Scheduler: env.manager,
		History:   env.history,
		Metrics:   metrics.New(),
		Rebuild: func() (int, error) {
			env.rebuilds++
			meds, err := env.store.List()
			if err != nil {
				return 0, err
			}
			return env.manager.Rebuild(meds), nil
		},
		Logger: zerolog.Nop(),
	})
	env.srv = httptest.NewServer(handler)
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}

func (e *testEnv) add(t *testing.T, name, clock string) medicine.Medicine {
	t.Helper()
	st, body := e.do(t, "POST", "/medicines", map[string]string{"name": name, "dosage": "1 tab", "time": clock})
	if st != http.StatusCreated {
		t.Fatalf("add %s: status %d body=%s", name, st, body)
	}
	var m medicine.Medicine
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	st, body := env.do(t, "GET", "/health", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Errorf("health = %d %q", st, body)
	}
}

func TestAddSchedulesReminder(t *testing.T) {
	env := newTestEnv(t)
	m := env.add(t, "Aspirin", "08:00")
	if m.ID == "" || m.Taken {
		t.Errorf("added = %+v", m)
	}
	if env.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", env.rebuilds)
	}

	st, body := env.do(t, "GET", "/schedule", nil)
	if st != http.StatusOK {
		t.Fatalf("schedule status %d", st)
	}
	var pending []schedule.Entry
	json.Unmarshal(body, &pending)
	if len(pending) != 1 || pending[0].ID != m.ID {
		t.Errorf("pending = %+v", pending)
	}
}

func TestAddInvalid(t *testing.T) {
	env := newTestEnv(t)
	st, _ := env.do(t, "POST", "/medicines", map[string]string{"name": "x", "time": "noon"})
	if st != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", st)
	}
	st, _ = env.do(t, "POST", "/medicines", "not an object")
	if st != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", st)
	}
	if env.rebuilds != 0 {
		t.Errorf("failed mutation triggered rebuild")
	}
}

func TestToggleRemovesFromSchedule(t *testing.T) {
	env := newTestEnv(t)
	m := env.add(t, "Aspirin", "08:00")

	st, body := env.do(t, "POST", "/medicines/"+m.ID+"/toggle", nil)
	if st != http.StatusOK {
		t.Fatalf("toggle status %d body=%s", st, body)
	}
	var got medicine.Medicine
	json.Unmarshal(body, &got)
	if !got.Taken {
		t.Error("toggle should mark taken")
	}
	if env.manager.Len() != 0 {
		t.Errorf("taken medicine still scheduled")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	m := env.add(t, "Aspirin", "08:00")

	st, body := env.do(t, "PUT", "/medicines/"+m.ID, map[string]string{"name": "Aspirin", "dosage": "200mg", "time": "09:15"})
	if st != http.StatusOK {
		t.Fatalf("update status %d body=%s", st, body)
	}
	p, _ := env.manager.Next()
	if p.Due.Hour() != 9 || p.Due.Minute() != 15 {
		t.Errorf("due after update = %v", p.Due)
	}

	st, _ = env.do(t, "DELETE", "/medicines/"+m.ID, nil)
	if st != http.StatusNoContent {
		t.Errorf("delete status %d", st)
	}
	if env.manager.Len() != 0 {
		t.Error("deleted medicine still scheduled")
	}
	st, _ = env.do(t, "DELETE", "/medicines/"+m.ID, nil)
	if st != http.StatusNotFound {
		t.Errorf("second delete status %d, want 404", st)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	st, _ := env.do(t, "POST", "/medicines/missing/toggle", nil)
	if st != http.StatusNotFound {
		t.Errorf("status = %d, want 404", st)
	}
}

func TestResetTaken(t *testing.T) {
	env := newTestEnv(t)
	m := env.add(t, "Aspirin", "08:00")
	env.do(t, "POST", "/medicines/"+m.ID+"/toggle", nil)

	st, body := env.do(t, "POST", "/medicines/reset", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"reset":1`) {
		t.Errorf("reset = %d %s", st, body)
	}
	if env.manager.Len() != 1 {
		t.Error("reset medicine should be rescheduled")
	}
}

func TestListMedicinesEmpty(t *testing.T) {
	env := newTestEnv(t)
	st, body := env.do(t, "GET", "/medicines", nil)
	if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("list = %d %s", st, body)
	}
}

func TestSoundSettings(t *testing.T) {
	env := newTestEnv(t)
	st, body := env.do(t, "GET", "/settings/sound", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"alarm"`) {
		t.Errorf("default sound = %d %s", st, body)
	}

	st, _ = env.do(t, "PUT", "/settings/sound", map[string]string{"soundType": "chime"})
	if st != http.StatusOK {
		t.Fatalf("put status %d", st)
	}
	_, body = env.do(t, "GET", "/settings/sound", nil)
	if !strings.Contains(string(body), `"chime"`) {
		t.Errorf("sound after put = %s", body)
	}

	st, _ = env.do(t, "PUT", "/settings/sound", map[string]string{"soundType": "siren"})
	if st != http.StatusBadRequest {
		t.Errorf("unknown sound status %d, want 400", st)
	}
}

func TestListSounds(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, "GET", "/sounds", nil)
	var sounds []soundInfo
	json.Unmarshal(body, &sounds)
	if len(sounds) != 4 {
		t.Errorf("sounds = %+v", sounds)
	}
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t)
	st, _ := env.do(t, "POST", "/preview/digital", nil)
	if st != http.StatusAccepted {
		t.Errorf("status %d, want 202", st)
	}
	if len(env.dispatcher.previews) != 1 || env.dispatcher.previews[0] != synth.Digital {
		t.Errorf("previews = %v", env.dispatcher.previews)
	}
	st, _ = env.do(t, "POST", "/preview/siren", nil)
	if st != http.StatusBadRequest {
		t.Errorf("unknown profile status %d, want 400", st)
	}
}

func TestRebuildEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "Aspirin", "08:00")
	env.add(t, "Iron", "05:00") // already passed at 06:00

	st, body := env.do(t, "POST", "/schedule/rebuild", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"scheduled":1`) {
		t.Errorf("rebuild = %d %s", st, body)
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	env.history.Log(eventlog.Entry{Kind: eventlog.KindFired, Name: "Aspirin", Profile: "alarm"})

	st, body := env.do(t, "GET", "/history?days=7", nil)
	if st != http.StatusOK {
		t.Fatalf("status %d", st)
	}
	var entries []eventlog.Entry
	json.Unmarshal(body, &entries)
	if len(entries) != 1 || entries[0].Name != "Aspirin" {
		t.Errorf("entries = %+v", entries)
	}

	st, _ = env.do(t, "GET", "/history?days=abc", nil)
	if st != http.StatusBadRequest {
		t.Errorf("bad days status %d", st)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "Aspirin", "08:00")
	st, body := env.do(t, "GET", "/metrics", nil)
	if st != http.StatusOK {
		t.Fatalf("status %d", st)
	}
	if !strings.Contains(string(body), "medtime_") {
		t.Errorf("metrics body missing medtime series:\n%s", body)
	}
}

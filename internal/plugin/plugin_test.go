package plugin

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestBuildEnvCarriesEvent(t *testing.T) {
	env := buildEnv([]byte(`{"name":"Aspirin"}`))
	found := false
	for _, e := range env {
		if e == `MEDTIME_EVENT={"name":"Aspirin"}` {
			found = true
		}
	}
	if !found {
		t.Error("MEDTIME_EVENT not set")
	}
}

func TestNew(t *testing.T) {
	if New("", 5) != nil {
		t.Error("expected nil hook without command")
	}
	tests := []struct {
		sec  int
		want time.Duration
	}{
		{0, defaultTimeout},
		{-1, 0},
		{3, 3 * time.Second},
	}
	for _, tt := range tests {
		if got := New("true", tt.sec).timeout; got != tt.want {
			t.Errorf("New(%d).timeout = %v, want %v", tt.sec, got, tt.want)
		}
	}
}

func TestRunReadsStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	out := filepath.Join(t.TempDir(), "event.json")
	h := New("cat > "+out, 0)
	if err := h.PublishDose([]byte(`{"name":"Iron"}`)); err != nil {
		t.Fatalf("PublishDose: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"Iron"}` {
		t.Errorf("stdin = %q", data)
	}
}

func TestRunFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	err := Run("echo broken >&2; exit 3", nil, time.Second)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should carry stderr: %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	err := Run("sleep 5", nil, 100*time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want timeout", err)
	}
}

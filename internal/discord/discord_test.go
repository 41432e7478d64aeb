package discord

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSuccess(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Send("Take Aspirin - 100mg"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["content"] != "Take Aspirin - 100mg" {
		t.Errorf("content = %q", got["content"])
	}
}

func TestSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	if err := Send(srv.URL, "test"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestNewDisabled(t *testing.T) {
	if New("") != nil {
		t.Error("expected nil channel without webhook")
	}
}

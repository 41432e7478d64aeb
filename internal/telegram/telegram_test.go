package telegram

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendSuccess(t *testing.T) {
	var gotChatID, gotText string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := &Channel{endpoint: srv.URL, chatID: "123456"}
	if err := c.Send("hello world"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotChatID != "123456" {
		t.Errorf("chat_id = %q, want %q", gotChatID, "123456")
	}
	if gotText != "hello world" {
		t.Errorf("text = %q, want %q", gotText, "hello world")
	}
}

func TestSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if err := sendTo(srv.URL, "123456", "test"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestNew(t *testing.T) {
	if New("", "1") != nil || New("tok", "") != nil {
		t.Error("expected nil channel without token and chat id")
	}
	c := New("tok", "42")
	if !strings.HasSuffix(c.endpoint, "/bottok/sendMessage") {
		t.Errorf("endpoint = %q", c.endpoint)
	}
	if c.Name() != "telegram" {
		t.Errorf("Name() = %q", c.Name())
	}
}

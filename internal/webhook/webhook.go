// Package webhook posts dose-due events to an HTTP endpoint.
package webhook

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"github.com/Mavwarf/medtime/internal/config"
	"github.com/Mavwarf/medtime/internal/httputil"
)

// Sender posts JSON payloads to one URL.
type Sender struct {
	url     string
	headers map[string]string
}

// New returns a Sender for cfg, or nil when no URL is configured.
func New(cfg config.Webhook) *Sender {
	if cfg.URL == "" {
		return nil
	}
	return &Sender{url: cfg.URL, headers: cfg.Headers}
}

// Name identifies the channel in logs and metrics.
func (s *Sender) Name() string { return "webhook" }

// PublishDose posts a JSON dose event.
func (s *Sender) PublishDose(payload []byte) error {
	return Send(s.url, "application/json", payload, s.headers)
}

// Send posts body to url. Custom headers are applied after the
// Content-Type, so callers can override it. Header values are expanded
// with os.ExpandEnv to support $VAR secrets.
func Send(url, contentType string, body []byte, headers map[string]string) error {
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, os.ExpandEnv(v))
	}

	resp, err := httputil.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "webhook")
}

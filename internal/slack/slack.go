// Package slack posts reminder text to a Slack incoming webhook.
package slack

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Mavwarf/medtime/internal/httputil"
)

// Channel sends to one incoming webhook.
type Channel struct {
	webhook string
}

// New returns a Channel, or nil when webhookURL is empty.
func New(webhookURL string) *Channel {
	if webhookURL == "" {
		return nil
	}
	return &Channel{webhook: webhookURL}
}

func (c *Channel) Name() string { return "slack" }

func (c *Channel) Send(message string) error { return Send(c.webhook, message) }

// Send posts a message to a Slack channel via incoming webhook URL.
func Send(webhookURL, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("slack: marshal: %w", err)
	}

	resp, err := httputil.Client.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "slack: webhook")
}

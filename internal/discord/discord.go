// Package discord posts reminder text to a Discord channel webhook.
package discord

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Mavwarf/medtime/internal/httputil"
)

// Channel sends to one webhook URL.
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

func (c *Channel) Name() string { return "discord" }

func (c *Channel) Send(message string) error { return Send(c.webhook, message) }

// Send posts a message to a Discord channel via webhook URL.
func Send(webhookURL, message string) error {
	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("discord: marshal: %w", err)
	}

	resp, err := httputil.Client.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "discord: webhook")
}

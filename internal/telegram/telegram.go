// Package telegram sends reminder text to a chat through the Bot API.
package telegram

import (
	"fmt"
	"net/url"

	"github.com/Mavwarf/medtime/internal/httputil"
)

// Channel sends to one chat.
type Channel struct {
	endpoint string
	chatID   string
}

// New returns a Channel, or nil when token or chatID is empty.
func New(token, chatID string) *Channel {
	if token == "" || chatID == "" {
		return nil
	}
	return &Channel{
		endpoint: fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", token),
		chatID:   chatID,
	}
}

func (c *Channel) Name() string { return "telegram" }

func (c *Channel) Send(message string) error { return sendTo(c.endpoint, c.chatID, message) }

// sendTo posts a message to the given endpoint. Extracted for testing.
func sendTo(endpoint, chatID, message string) error {
	resp, err := httputil.Client.PostForm(endpoint, url.Values{
		"chat_id": {chatID},
		"text":    {message},
	})
	if err != nil {
		return fmt.Errorf("telegram: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "telegram: API")
}

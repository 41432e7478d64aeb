package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Mavwarf/medtime/internal/paths"
	"github.com/rs/zerolog"
)

// DefaultVolume is the default playback volume (0-100).
const DefaultVolume = 100

// DefaultPollSeconds is how often the daemon checks the medicine store for
// changes made by other processes.
const DefaultPollSeconds = 5

// DefaultHTTPAddr is the loopback address of the daemon control API.
const DefaultHTTPAddr = "127.0.0.1:8812"

// DefaultMessageTemplate is the notification body used when none is configured.
const DefaultMessageTemplate = "Take {name} - {dosage}"

// MQTT holds the optional broker settings for publishing dose-due events.
// An empty Broker disables publishing.
type MQTT struct {
	Broker   string `json:"broker,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	QoS      int    `json:"qos,omitempty"`
	Retain   bool   `json:"retain,omitempty"`
}

// Webhook holds the optional endpoint that receives dose-due events as JSON.
// Header values may reference environment variables ($VAR).
type Webhook struct {
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Chat holds the optional chat services that receive reminder text.
type Chat struct {
	DiscordWebhook string `json:"discord_webhook,omitempty"`
	SlackWebhook   string `json:"slack_webhook,omitempty"`
	TelegramToken  string `json:"telegram_token,omitempty"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
}

// Options holds global settings parsed from the "config" key.
type Options struct {
	DefaultVolume   int    `json:"default_volume,omitempty"`
	Notifications   bool   `json:"notifications"`
	MessageTemplate string `json:"message_template,omitempty"`
	Storage         string `json:"storage,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`
	LogDir          string `json:"log_dir,omitempty"`
	PollSeconds     int    `json:"poll_seconds,omitempty"`
	HTTPAddr        string `json:"http_addr,omitempty"`
	Speak           bool   `json:"speak,omitempty"`
	HookCommand     string `json:"hook_command,omitempty"`
	HookTimeout     int    `json:"hook_timeout,omitempty"`
}

// Config holds the top-level configuration.
type Config struct {
	Options Options `json:"config"`
	MQTT    MQTT    `json:"mqtt"`
	Webhook Webhook `json:"webhook"`
	Chat    Chat    `json:"chat"`
}

// Default returns a Config with every option at its default value.
func Default() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.Options.DefaultVolume = DefaultVolume
	c.Options.Notifications = true
	c.Options.MessageTemplate = DefaultMessageTemplate
	c.Options.LogLevel = "info"
	c.Options.PollSeconds = DefaultPollSeconds
	c.Options.HTTPAddr = DefaultHTTPAddr
	c.MQTT.ClientID = "medtime"
	c.MQTT.Topic = "medtime/dose"
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.setDefaults()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// StoragePath returns the configured database path or the default one
// inside the data directory.
func (c Config) StoragePath() string {
	if c.Options.Storage != "" {
		return c.Options.Storage
	}
	return paths.DatabasePath()
}

// DataFile returns the path of a state file stored next to the database.
func (c Config) DataFile(name string) string {
	return filepath.Join(filepath.Dir(c.StoragePath()), name)
}

// Validate reports the first invalid option.
func Validate(c Config) error {
	if v := c.Options.DefaultVolume; v < 0 || v > 100 {
		return fmt.Errorf("default_volume must be between 0 and 100, got %d", v)
	}
	if _, err := zerolog.ParseLevel(c.Options.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Options.PollSeconds < 0 {
		return fmt.Errorf("poll_seconds must not be negative, got %d", c.Options.PollSeconds)
	}
	if q := c.MQTT.QoS; q < 0 || q > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", q)
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return errors.New("mqtt topic is required when a broker is set")
	}
	if raw := c.Webhook.URL; raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("webhook url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("webhook url must be http or https, got %q", raw)
		}
	}
	if (c.Chat.TelegramToken == "") != (c.Chat.TelegramChatID == "") {
		return errors.New("chat: telegram_token and telegram_chat_id must be set together")
	}
	return nil
}

// FindPath returns the config file that Load would read. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. medtime-config.json next to the running binary
//  3. medtime-config.json in the data directory
//
// An empty path with a nil error means no config file exists.
func FindPath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	p := filepath.Join(paths.DataDir(), paths.ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return "", nil
}

// Load reads and parses the config file found by FindPath. A missing
// config file is not an error: every option falls back to its default.
func Load(explicitPath string) (Config, error) {
	p, err := FindPath(explicitPath)
	if err != nil {
		return Config{}, err
	}
	if p == "" {
		return Default(), nil
	}
	return readConfig(p)
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

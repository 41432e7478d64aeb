// Package mqtt publishes dose-due events to an MQTT broker.
package mqtt

import (
	"fmt"
	"time"

	"github.com/Mavwarf/medtime/internal/config"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher sends dose events using the broker settings from config.
type Publisher struct {
	cfg     config.MQTT
	publish func(broker, clientID, topic, message string, qos byte, retain bool, username, password string) error
}

// NewPublisher returns a Publisher for cfg, or nil when no broker is configured.
func NewPublisher(cfg config.MQTT) *Publisher {
	if cfg.Broker == "" {
		return nil
	}
	return &Publisher{cfg: cfg, publish: Publish}
}

// Name identifies the channel in logs and metrics.
func (p *Publisher) Name() string { return "mqtt" }

// PublishDose publishes an encoded dose event to the configured topic.
func (p *Publisher) PublishDose(payload []byte) error {
	c := p.cfg
	return p.publish(c.Broker, c.ClientID, c.Topic, string(payload), byte(c.QoS), c.Retain, c.Username, c.Password)
}

// Publish connects to an MQTT broker, publishes a message to the given
// topic, and disconnects. Each invocation creates a fresh connection.
func Publish(broker, clientID, topic, message string, qos byte, retain bool, username, password string) error {
	opts := pahomqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second)

	if username != "" {
		opts.SetUsername(username)
	}
	if password != "" {
		opts.SetPassword(password)
	}

	client := pahomqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt: connect timeout")
	}
	if tok.Error() != nil {
		return fmt.Errorf("mqtt: connect: %w", tok.Error())
	}
	defer client.Disconnect(250)

	pub := client.Publish(topic, qos, retain, message)
	if !pub.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if pub.Error() != nil {
		return fmt.Errorf("mqtt: publish: %w", pub.Error())
	}
	return nil
}

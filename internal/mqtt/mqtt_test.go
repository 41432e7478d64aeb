package mqtt

import (
	"testing"

	"github.com/Mavwarf/medtime/internal/config"
)

func TestPublishBadBroker(t *testing.T) {
	// Connecting to a non-existent broker should return a connect error.
	err := Publish("tcp://127.0.0.1:19999", "test-client", "test/topic", "hello", 0, false, "", "")
	if err == nil {
		t.Fatal("expected error for unreachable broker")
	}
}

func TestPublishBadScheme(t *testing.T) {
	err := Publish("not-a-url", "test-client", "test/topic", "hello", 0, false, "", "")
	if err == nil {
		t.Fatal("expected error for invalid broker URL")
	}
}

func TestNewPublisherDisabled(t *testing.T) {
	if p := NewPublisher(config.MQTT{}); p != nil {
		t.Fatal("expected nil publisher without broker")
	}
}

func TestPublishDose(t *testing.T) {
	cfg := config.MQTT{
		Broker:   "tcp://broker:1883",
		ClientID: "medtime",
		Topic:    "medtime/dose",
		QoS:      1,
		Retain:   true,
		Username: "u",
		Password: "p",
	}
	p := NewPublisher(cfg)

	var gotTopic, gotMsg string
	var gotQoS byte
	var gotRetain bool
	p.publish = func(broker, clientID, topic, message string, qos byte, retain bool, username, password string) error {
		if broker != cfg.Broker || clientID != cfg.ClientID || username != "u" || password != "p" {
			t.Errorf("unexpected connection args %q %q %q %q", broker, clientID, username, password)
		}
		gotTopic, gotMsg, gotQoS, gotRetain = topic, message, qos, retain
		return nil
	}

	if err := p.PublishDose([]byte(`{"name":"Aspirin"}`)); err != nil {
		t.Fatal(err)
	}
	if gotTopic != "medtime/dose" || gotQoS != 1 || !gotRetain {
		t.Errorf("topic=%q qos=%d retain=%v", gotTopic, gotQoS, gotRetain)
	}
	if gotMsg != `{"name":"Aspirin"}` {
		t.Errorf("message = %q", gotMsg)
	}
	if p.Name() != "mqtt" {
		t.Errorf("Name() = %q", p.Name())
	}
}

// Package bridge republishes computed frames over MQTT so lighting
// consoles and other controllers can consume aims without speaking
// the websocket protocol.
package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/engine"
)

const (
	topicPointer    = "gyrobeam/pointer"
	topicFixtureAim = "gyrobeam/fixtures/%s/aim"
	connectTimeout  = 5 * time.Second
	publishQoS      = 0
)

// Publisher forwards frames to an MQTT broker. A nil Publisher is
// valid and publishes nothing, so callers need no enabled check.
type Publisher struct {
	client mqtt.Client
}

// New connects to the broker. An empty broker URL disables the bridge
// and returns a nil Publisher.
func New(broker, clientID string) (*Publisher, error) {
	if broker == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info("mqtt connected", "broker", broker)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("mqtt connection lost", "error", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return &Publisher{client: client}, nil
}

// PublishFrame emits the pointer state and one aim message per
// fixture. Publishes are fire-and-forget at QoS 0; a stale aim is
// worthless by the time a retry would land.
func (p *Publisher) PublishFrame(frame engine.Frame) {
	if p == nil {
		return
	}

	update := frame.StateUpdate()
	if data, err := json.Marshal(update.Pointer); err == nil {
		p.client.Publish(topicPointer, publishQoS, false, data)
	}

	for _, aim := range update.Fixtures {
		data, err := json.Marshal(aim)
		if err != nil {
			continue
		}
		topic := fmt.Sprintf(topicFixtureAim, aim.FixtureID)
		p.client.Publish(topic, publishQoS, false, data)
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}

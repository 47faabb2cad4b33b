package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const DefaultTopic = "accel"

// Sample is a converted acceleration reading in m/s² with the die temperature in °C.
type Sample struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Event is the payload published for every serviced trigger.
type Event struct {
	Device  string    `json:"device"`
	Trigger string    `json:"trigger"`
	Time    time.Time `json:"time"`
	Sample  *Sample   `json:"sample,omitempty"`
}

type Opts struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Retained bool
	Timeout  time.Duration
}

type Opt func(*Opts)

func WithClientID(id string) Opt {
	return func(o *Opts) {
		o.ClientID = id
	}
}

func WithTopic(topic string) Opt {
	return func(o *Opts) {
		o.Topic = topic
	}
}

func WithQoS(qos byte) Opt {
	return func(o *Opts) {
		o.QoS = qos
	}
}

func WithRetained(retained bool) Opt {
	return func(o *Opts) {
		o.Retained = retained
	}
}

// publisher is the part of mqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes trigger events and samples under <topic>/<device>/<kind>.
type MQTT struct {
	config Opts
	client publisher
	close  func()
}

// Connect opens a connection to the broker.
func Connect(broker string, opts ...Opt) (*MQTT, error) {
	config := Opts{
		Broker:   broker,
		ClientID: "accel",
		Topic:    DefaultTopic,
		Timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(&config)
	}
	co := mqtt.NewClientOptions().
		AddBroker(config.Broker).
		SetClientID(config.ClientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(co)
	token := client.Connect()
	if !token.WaitTimeout(config.Timeout) {
		return nil, fmt.Errorf("MQTT connect to %s timed out", config.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("MQTT connect error: %w", err)
	}
	slog.Debug("connected to MQTT", "broker", config.Broker, "client", config.ClientID)
	return &MQTT{
		config: config,
		client: client,
		close:  func() { client.Disconnect(250) },
	}, nil
}

func (m *MQTT) Topic(device, kind string) string {
	return m.config.Topic + "/" + device + "/" + kind
}

func (m *MQTT) PublishEvent(e Event) error {
	return m.publish(m.Topic(e.Device, "event"), e)
}

func (m *MQTT) PublishSample(device string, s Sample) error {
	return m.publish(m.Topic(device, "sample"), s)
}

func (m *MQTT) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	token := m.client.Publish(topic, m.config.QoS, m.config.Retained, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish error (%s): %w", topic, token.Error())
	}
	return nil
}

func (m *MQTT) Close() {
	if m.close != nil {
		m.close()
	}
}

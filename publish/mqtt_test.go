package publish

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *doneToken) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent []message
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &doneToken{err: c.err}
}

func newTestMQTT(client *fakeClient, opts ...Opt) *MQTT {
	config := Opts{Topic: DefaultTopic}
	for _, opt := range opts {
		opt(&config)
	}
	return &MQTT{config: config, client: client}
}

func TestPublishEvent(t *testing.T) {
	client := &fakeClient{}
	m := newTestMQTT(client, WithTopic("lab"), WithQoS(1))
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := m.PublishEvent(Event{
		Device:  "iis2dlpc-19",
		Trigger: "double-tap",
		Time:    ts,
		Sample:  &Sample{X: 0.1, Y: -0.2, Z: 9.81},
	})
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "lab/iis2dlpc-19/event", client.sent[0].topic)
	assert.Equal(t, byte(1), client.sent[0].qos)
	assert.JSONEq(t,
		`{"device":"iis2dlpc-19","trigger":"double-tap","time":"2024-03-01T12:00:00Z","sample":{"x":0.1,"y":-0.2,"z":9.81}}`,
		string(client.sent[0].payload))
}

func TestPublishEvent_NoSample(t *testing.T) {
	client := &fakeClient{}
	m := newTestMQTT(client)
	require.NoError(t, m.PublishEvent(Event{Device: "d", Trigger: "activity"}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(client.sent[0].payload, &decoded))
	assert.NotContains(t, decoded, "sample")
}

func TestPublishSample(t *testing.T) {
	client := &fakeClient{}
	m := newTestMQTT(client, WithRetained(true))
	require.NoError(t, m.PublishSample("d", Sample{Z: 9.80665, Temperature: 25.5}))
	assert.Equal(t, "accel/d/sample", client.sent[0].topic)
	assert.True(t, client.sent[0].retained)
	assert.JSONEq(t, `{"x":0,"y":0,"z":9.80665,"temperature":25.5}`, string(client.sent[0].payload))
}

func TestPublishError(t *testing.T) {
	errBroker := errors.New("not connected")
	m := newTestMQTT(&fakeClient{err: errBroker})
	err := m.PublishSample("d", Sample{})
	assert.ErrorIs(t, err, errBroker)
}

package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/wardwatch/pkg/event"
	"github.com/urmzd/wardwatch/pkg/monitor"
	"github.com/urmzd/wardwatch/pkg/schema"
)

type fakeToken struct {
	done    bool
	err     error
	timeout time.Duration
}

func (t *fakeToken) Wait() bool { return t.done }

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	t.timeout = d
	return t.done
}

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.done {
		close(ch)
	}
	return ch
}

func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

// fakeClient implements the calls the transport makes; the embedded
// interface panics on anything else.
type fakeClient struct {
	mqtt.Client
	connected   bool
	token       *fakeToken
	published   []published
	subscribed  map[string]mqtt.MessageHandler
	quiesceUsed uint
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		connected:  true,
		token:      &fakeToken{done: true},
		subscribed: map[string]mqtt.MessageHandler{},
	}
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload any) mqtt.Token {
	c.published = append(c.published, published{topic, qos, retained, string(payload.([]byte))})
	return c.token
}

func (c *fakeClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	c.subscribed[topic] = cb
	return c.token
}

func (c *fakeClient) Disconnect(quiesce uint) { c.quiesceUsed = quiesce }

func TestPublish_TopicAndPayload(t *testing.T) {
	client := newFakeClient()
	tr := New(client, Config{TopicPrefix: "ward/7/"})

	err := tr.Publish(context.Background(), event.Department{Department: "Cardiac dept", RSSI: -61, Timestamp: 9000})
	require.NoError(t, err)

	require.Len(t, client.published, 1)
	got := client.published[0]
	require.Equal(t, "ward/7/department", got.topic)
	require.Equal(t, QoS, got.qos)
	require.False(t, got.retained)
	require.JSONEq(t, `{"department":"Cardiac dept","rssi":-61,"timestamp":9000}`, got.payload)
	require.Equal(t, DefaultPublishTimeout, client.token.timeout)
}

func TestPublish_FieldOrder(t *testing.T) {
	client := newFakeClient()
	tr := New(client, Config{TopicPrefix: "wardwatch"})

	require.NoError(t, tr.Publish(context.Background(), event.PeriodicStatus{
		Orientation: "standing",
		Department:  "Pediatric dept",
		Temperature: 36.5,
		Timestamp:   300000,
	}))

	require.Equal(t,
		`{"orientation":"standing","department":"Pediatric dept","temperature":36.50,"timestamp":300000}`,
		client.published[0].payload)
}

func TestPublish_Errors(t *testing.T) {
	ev := event.PeriodicStatus{Orientation: "standing"}

	t.Run("timeout", func(t *testing.T) {
		client := newFakeClient()
		client.token.done = false
		err := New(client, Config{}).Publish(context.Background(), ev)
		require.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("broker error", func(t *testing.T) {
		client := newFakeClient()
		refused := errors.New("not authorized")
		client.token.err = refused
		err := New(client, Config{}).Publish(context.Background(), ev)
		require.ErrorIs(t, err, refused)
	})

	t.Run("context deadline shortens wait", func(t *testing.T) {
		client := newFakeClient()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, New(client, Config{}).Publish(ctx, ev))
		require.LessOrEqual(t, client.token.timeout, time.Second)
	})
}

func TestPublish_ValidatorRejects(t *testing.T) {
	client := newFakeClient()
	tr := New(client, Config{}).WithValidator(schema.NewValidator())

	err := tr.Publish(context.Background(), event.PeriodicStatus{Orientation: "sitting"})
	require.Error(t, err)
	require.Empty(t, client.published)
}

func TestSubscribeCommands(t *testing.T) {
	client := newFakeClient()
	tr := New(client, Config{TopicPrefix: "wardwatch"})

	var got []string
	require.NoError(t, tr.SubscribeCommands(context.Background(), func(_ context.Context, text string) {
		got = append(got, text)
	}))

	cb, ok := client.subscribed["wardwatch/command"]
	require.True(t, ok, "expected subscription on wardwatch/command")

	cb(client, fakeMessage{topic: "wardwatch/command", payload: []byte(" fall\n")})
	cb(client, fakeMessage{topic: "wardwatch/command", payload: []byte(`{"command":"arg1"}`)})
	cb(client, fakeMessage{topic: "wardwatch/command", payload: []byte(`{"command":`)})

	require.Equal(t, []string{"fall", "arg1"}, got)
}

func TestCommandText(t *testing.T) {
	tests := []struct {
		payload string
		want    string
		wantErr bool
	}{
		{"on", "on", false},
		{"  Info  ", "Info", false},
		{`{"command": "off"}`, "off", false},
		{`{"cmd": "off"}`, "", false},
		{`{broken`, "", true},
	}

	for _, tt := range tests {
		got, err := CommandText([]byte(tt.payload))
		if (err != nil) != tt.wantErr {
			t.Errorf("CommandText(%q) error = %v, wantErr %v", tt.payload, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CommandText(%q) = %q, want %q", tt.payload, got, tt.want)
		}
	}
}

func TestClose_Disconnects(t *testing.T) {
	client := newFakeClient()
	New(client, Config{}).Close()
	require.Equal(t, uint(disconnectQuiesceMs), client.quiesceUsed)
}

func TestTransports_SatisfyMonitor(t *testing.T) {
	var _ monitor.Transport = (*MQTT)(nil)
	var _ monitor.Transport = (*Log)(nil)

	require.False(t, NewLog().IsConnected())
	require.NoError(t, NewLog().Publish(context.Background(), event.Department{Department: "Cardiac dept"}))
}

// Package transport delivers monitor events to the ward backend over MQTT and
// receives remote text commands on the same broker.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/event"
)

const (
	// QoS is the delivery level of events and the command subscription.
	QoS byte = 1

	// CommandTopic is the topic suffix remote commands arrive on.
	CommandTopic = "command"

	DefaultPublishTimeout = 5 * time.Second
	DefaultConnectTimeout = 10 * time.Second
	disconnectQuiesceMs   = 250
)

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt operation timed out")

// Config describes the broker connection.
type Config struct {
	BrokerURL      string
	ClientID       string
	TopicPrefix    string
	Username       string
	Password       string
	PublishTimeout time.Duration
	ConnectTimeout time.Duration
}

// PayloadValidator rejects malformed outbound payloads.
type PayloadValidator interface {
	ValidateEvent(ev event.Event) error
}

// CommandHandler receives a remote command's text.
type CommandHandler func(ctx context.Context, text string)

// MQTT publishes events to <prefix>/<event name>.
type MQTT struct {
	client    mqtt.Client
	prefix    string
	timeout   time.Duration
	validator PayloadValidator
}

// Connect dials the broker. Auto-reconnect is enabled; a broker that goes
// away later only surfaces as failed publishes.
func Connect(cfg Config) (*MQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	// Command handlers block on the monitor loop.
	opts.SetOrderMatters(false)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		log.Info().Str("broker", cfg.BrokerURL).Msg("MQTT connected")
	})

	client := mqtt.NewClient(opts)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.BrokerURL, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.BrokerURL, err)
	}

	return New(client, cfg), nil
}

// New wraps an existing client.
func New(client mqtt.Client, cfg Config) *MQTT {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &MQTT{
		client:  client,
		prefix:  strings.TrimSuffix(cfg.TopicPrefix, "/"),
		timeout: timeout,
	}
}

// WithValidator makes Publish reject payloads that fail validation.
func (m *MQTT) WithValidator(v PayloadValidator) *MQTT {
	m.validator = v
	return m
}

// Topic returns the full topic for a suffix.
func (m *MQTT) Topic(suffix string) string {
	if m.prefix == "" {
		return suffix
	}
	return m.prefix + "/" + suffix
}

// Publish sends ev and waits for the broker acknowledgement.
func (m *MQTT) Publish(ctx context.Context, ev event.Event) error {
	if m.validator != nil {
		if err := m.validator.ValidateEvent(ev); err != nil {
			return fmt.Errorf("invalid %s payload: %w", ev.Name(), err)
		}
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ev.Name(), err)
	}

	topic := m.Topic(ev.Name())
	token := m.client.Publish(topic, QoS, false, payload)

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).RawJSON("payload", payload).Msg("Event published")
	return nil
}

// IsConnected reports whether the client currently has a broker session.
func (m *MQTT) IsConnected() bool {
	return m.client.IsConnected()
}

// SubscribeCommands delivers messages on <prefix>/command to handle. The
// payload is either the bare command text or {"command": "<text>"}.
func (m *MQTT) SubscribeCommands(ctx context.Context, handle CommandHandler) error {
	topic := m.Topic(CommandTopic)
	token := m.client.Subscribe(topic, QoS, func(_ mqtt.Client, msg mqtt.Message) {
		text, err := CommandText(msg.Payload())
		if err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("Malformed command message")
			return
		}
		handle(ctx, text)
	})
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	log.Info().Str("topic", topic).Msg("Listening for commands")
	return nil
}

// CommandText extracts the command from a message payload.
func CommandText(payload []byte) (string, error) {
	trimmed := strings.TrimSpace(string(payload))
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	var body struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal([]byte(trimmed), &body); err != nil {
		return "", fmt.Errorf("failed to decode command: %w", err)
	}
	return body.Command, nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	m.client.Disconnect(disconnectQuiesceMs)
}

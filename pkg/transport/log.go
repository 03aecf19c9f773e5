package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/event"
)

// Log writes events to the log instead of a broker. It is used when no
// broker is reachable at startup and always reports disconnected.
type Log struct{}

// NewLog creates a Log transport.
func NewLog() *Log { return &Log{} }

func (*Log) Publish(_ context.Context, ev event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ev.Name(), err)
	}
	log.Info().Str("event", ev.Name()).RawJSON("payload", payload).Msg("Event (no broker)")
	return nil
}

func (*Log) IsConnected() bool { return false }

package monitor

import (
	"context"
	"time"

	"github.com/urmzd/wardwatch/pkg/event"
)

// PublishInterval is the minimum spacing of outbound events.
const PublishInterval = 1100 * time.Millisecond

// Transport delivers outbound events. Acknowledgement and delivery
// guarantees belong to the implementation.
type Transport interface {
	Publish(ctx context.Context, ev event.Event) error
	IsConnected() bool
}

// PublishGate is the single rate limiter every outbound event passes through.
type PublishGate struct {
	LastPublish time.Duration
	Published   bool
}

// Wait blocks on clock until the next publish is allowed and returns how
// long it slept.
func (g *PublishGate) Wait(clock Clock) time.Duration {
	if !g.Published {
		return 0
	}
	elapsed := clock.Uptime() - g.LastPublish
	if elapsed >= PublishInterval {
		return 0
	}
	wait := PublishInterval - elapsed
	clock.Sleep(wait)
	return wait
}

// Publish waits for the gate, sends ev and records the attempt. The gate
// advances even when the transport fails so a failing send is never retried
// back-to-back.
func (g *PublishGate) Publish(ctx context.Context, clock Clock, t Transport, ev event.Event) error {
	g.Wait(clock)
	err := t.Publish(ctx, ev)
	g.LastPublish = clock.Uptime()
	g.Published = true
	return err
}

type discardTransport struct{}

func (discardTransport) Publish(context.Context, event.Event) error { return nil }

func (discardTransport) IsConnected() bool { return false }

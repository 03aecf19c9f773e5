package monitor

import (
	"context"
	"time"

	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/event"
)

type fakeClock struct {
	now   time.Duration
	slept []time.Duration
}

func (c *fakeClock) Uptime() time.Duration { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	if d > 0 {
		c.now += d
	}
}

func (c *fakeClock) set(ms int64) { c.now = time.Duration(ms) * time.Millisecond }

type sent struct {
	ev   event.Event
	atMs int64
}

type recordingTransport struct {
	clock *fakeClock
	sent  []sent
	err   error
}

func (t *recordingTransport) Publish(ctx context.Context, ev event.Event) error {
	t.sent = append(t.sent, sent{ev: ev, atMs: millis(t.clock)})
	return t.err
}

func (t *recordingTransport) IsConnected() bool { return true }

func (t *recordingTransport) names() []string {
	out := make([]string, 0, len(t.sent))
	for _, s := range t.sent {
		out = append(out, s.ev.Name())
	}
	return out
}

type fakeScanner struct {
	passes  [][]device.Sighting
	calls   int
	visited int
}

func (f *fakeScanner) Scan(ctx context.Context, visit func(device.Sighting) bool) error {
	defer func() { f.calls++ }()
	if f.calls >= len(f.passes) {
		return nil
	}
	for _, s := range f.passes[f.calls] {
		f.visited++
		if !visit(s) {
			break
		}
	}
	return nil
}

func (f *fakeScanner) IsConnected() bool { return true }
func (f *fakeScanner) Close()            {}

type fakeMotion struct {
	connected bool
	samples   []device.MotionSample
	reads     int
}

func (f *fakeMotion) Read(ctx context.Context) (device.MotionSample, error) {
	if f.reads >= len(f.samples) {
		return device.MotionSample{}, device.ErrTimeout
	}
	s := f.samples[f.reads]
	f.reads++
	return s, nil
}

func (f *fakeMotion) IsConnected() bool { return f.connected }
func (f *fakeMotion) Close()            {}

type savedIdentity struct {
	addr device.Address
	name string
}

type fakeIdentities struct {
	saved []savedIdentity
}

func (f *fakeIdentities) SaveIdentity(ctx context.Context, addr device.Address, name string) error {
	f.saved = append(f.saved, savedIdentity{addr: addr, name: name})
	return nil
}

var (
	phoneA     = device.MustParseAddress("11:22:33:44:55:66")
	phoneB     = device.MustParseAddress("66:55:44:33:22:11")
	pediatric  = device.MustParseAddress("AA:BB:CC:DD:EE:01")
	cardiac    = device.MustParseAddress("AA:BB:CC:DD:EE:02")
	testSite   = Site{Latitude: 10.0266, Longitude: 76.3119}
	restingZ1g = device.MotionSample{Accel: device.Vector{Z: 1}, TemperatureC: 36.6}
)

type harness struct {
	clock      *fakeClock
	transport  *recordingTransport
	scanner    *fakeScanner
	motion     *fakeMotion
	identities *fakeIdentities
	monitor    *Monitor
}

func newHarness() *harness {
	clock := &fakeClock{}
	h := &harness{
		clock:      clock,
		transport:  &recordingTransport{clock: clock},
		scanner:    &fakeScanner{},
		motion:     &fakeMotion{},
		identities: &fakeIdentities{},
	}
	h.monitor = New(Options{
		Clock:      h.clock,
		Motion:     h.motion,
		Scanner:    h.scanner,
		Transport:  h.transport,
		Identities: h.identities,
		Site:       testSite,
	})
	return h
}

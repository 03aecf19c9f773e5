// Package monitor runs the tag's polling loop: motion, BLE scan, heartbeat and
// presence in a single goroutine, with every outbound event serialized
// through one PublishGate.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/event"
)

const (
	// RescanAfter is the staleness of presence or department data that triggers a scan.
	RescanAfter = 7500 * time.Millisecond

	// HeartbeatInterval is the periodic_status cadence.
	HeartbeatInterval = 5 * time.Minute

	// DefaultIdle is the pause between cycles.
	DefaultIdle = 50 * time.Millisecond

	requestQueueSize = 16
)

// IdentityStore persists the paired identity after commissioning.
type IdentityStore interface {
	SaveIdentity(ctx context.Context, addr device.Address, name string) error
}

// Site is the fixed position reported in status and location events.
type Site struct {
	Latitude  float64
	Longitude float64
}

// MapsLink returns the map URL of the site.
func (s Site) MapsLink() string {
	return event.MapsLink(s.Latitude, s.Longitude)
}

// Options configures a Monitor. Nil sources fall back to null implementations.
type Options struct {
	Clock      Clock
	Motion     device.MotionSource
	Scanner    device.Scanner
	Transport  Transport
	Identities IdentityStore
	Site       Site
	Idle       time.Duration
}

// Monitor owns the hardware collaborators and drives State.
type Monitor struct {
	clock      Clock
	motion     device.MotionSource
	scanner    device.Scanner
	transport  Transport
	identities IdentityStore
	site       Site
	idle       time.Duration

	requests chan request

	snapshotMu sync.RWMutex
	snapshot   Snapshot
}

type request struct {
	raw   string
	cmd   Command
	parse bool
	// apply, when set, replaces command handling with a configuration change.
	apply func(*State)
	reply chan reply
}

type reply struct {
	result Result
	err    error
}

// New creates a Monitor.
func New(opts Options) *Monitor {
	m := &Monitor{
		clock:      opts.Clock,
		motion:     opts.Motion,
		scanner:    opts.Scanner,
		transport:  opts.Transport,
		identities: opts.Identities,
		site:       opts.Site,
		idle:       opts.Idle,
		requests:   make(chan request, requestQueueSize),
	}
	if m.clock == nil {
		m.clock = NewSystemClock()
	}
	if m.motion == nil {
		m.motion = device.NewNullMotionSource()
	}
	if m.scanner == nil {
		m.scanner = device.NewNullScanner()
	}
	if m.transport == nil {
		m.transport = discardTransport{}
	}
	if m.idle <= 0 {
		m.idle = DefaultIdle
	}
	return m
}

// Run drives the loop until ctx is done. Cancellation is only observed
// between cycles; a cycle in progress always completes.
func (m *Monitor) Run(ctx context.Context, s *State) error {
	s.LastHeartbeatMs = millis(m.clock)

	if s.Paired.IsUnset() {
		log.Warn().Msg("No paired identity; toggle commissioning with the tracked device nearby")
	} else {
		log.Info().Str("address", s.Paired.String()).Str("name", s.PairedName).Msg("Tracking paired identity")
	}
	for _, b := range s.Department.Beacons {
		log.Info().Str("key", b.Key).Str("address", b.Address.String()).Str("department", string(b.Department)).Msg("Department beacon")
	}

	m.storeSnapshot(s)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.drain(ctx, s)
		m.Step(ctx, s)
		m.clock.Sleep(m.idle)
	}
}

// Step runs one polling cycle.
func (m *Monitor) Step(ctx context.Context, s *State) {
	if m.motion.IsConnected() {
		m.stepMotion(ctx, s)
	}

	now := millis(m.clock)
	rescan := RescanAfter.Milliseconds()
	if now > s.LastSeenMs+rescan || now > s.Department.LastAnySeenMs+rescan {
		m.scan(ctx, s)
	}

	if millis(m.clock)-s.LastHeartbeatMs >= HeartbeatInterval.Milliseconds() {
		m.publishPeriodicStatus(ctx, s)
		s.LastHeartbeatMs = millis(m.clock)
	}

	m.stepPresence(ctx, s)
	m.storeSnapshot(s)
}

func (m *Monitor) stepMotion(ctx context.Context, s *State) {
	sample, err := m.motion.Read(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Motion sample skipped")
		return
	}

	nowUs := micros(m.clock)
	wasActive := s.Fall.Active
	elapsed := s.Fall.Elapsed(nowUs)
	if s.Fall.Evaluate(nowUs, sample.Accel) == FallConfirmed {
		log.Warn().Dur("duration", elapsed).Msg("Fall confirmed")
		m.publishFall(ctx, s)
	} else if s.Fall.Active && !wasActive {
		log.Trace().Float64("accel", sample.Accel.Magnitude()).Msg("Free fall started")
	} else if wasActive && !s.Fall.Active {
		log.Trace().Dur("duration", elapsed).Msg("Free fall ended too short")
	}

	next := s.Orientation.Evaluate(sample.Accel.Z)
	if next != s.Orientation {
		log.Info().Str("orientation", next.String()).Msg("Orientation changed")
		s.Orientation = next
	}

	s.TemperatureC = sample.TemperatureC
}

func (m *Monitor) scan(ctx context.Context, s *State) {
	err := m.scanner.Scan(ctx, func(sg device.Sighting) bool {
		return m.visit(ctx, s, sg)
	})
	if err != nil && !errors.Is(err, device.ErrNotConnected) {
		log.Debug().Err(err).Msg("Scan pass failed")
	}
}

// visit applies one sighting; returning false ends the scan pass.
// Beacons take priority over commissioning, which takes priority over
// tracking the paired identity.
func (m *Monitor) visit(ctx context.Context, s *State, sg device.Sighting) bool {
	now := millis(m.clock)
	sg.TimestampMs = now

	if ev, matched := s.Department.OnSighting(sg, now); matched {
		log.Info().Str("department", string(s.Department.Current)).Int("rssi", sg.RSSI).Msg("Department beacon sighted")
		if ev != nil {
			m.publish(ctx, s, *ev)
			log.Info().Str("department", ev.Department).Int("rssi", ev.RSSI).Msg("Department published")
		}
		return false
	}

	if s.Learning && s.Paired.IsUnset() {
		m.commission(ctx, s, sg)
		return false
	}

	if s.Paired.IsUnset() || sg.Address != s.Paired {
		return true
	}

	log.Trace().Int("rssi", sg.RSSI).Msg("Paired identity sighted")
	s.LastSeenMs = now
	s.LastRSSI = sg.RSSI
	return false
}

func (m *Monitor) commission(ctx context.Context, s *State, sg device.Sighting) {
	s.Paired = sg.Address
	s.PairedName = sg.Name
	s.Learning = false

	if m.identities != nil {
		if err := m.identities.SaveIdentity(ctx, sg.Address, sg.Name); err != nil {
			log.Error().Err(err).Str("address", sg.Address.String()).Msg("Failed to persist paired identity")
		}
	}

	log.Info().
		Str("address", sg.Address.String()).
		Str("name", sg.Name).
		Int("rssi", sg.RSSI).
		Msg("Paired identity saved, leaving learning mode")
}

func (m *Monitor) stepPresence(ctx context.Context, s *State) {
	next, changed := EvaluatePresence(millis(m.clock), s.LastSeenMs, s.Presence)
	if !changed {
		return
	}
	s.Presence = next

	switch next {
	case PresenceHere:
		log.Info().Int("rssi", s.LastRSSI).Msg("Paired identity here")
	case PresenceNotHere:
		log.Info().Msg("Paired identity not here")
	default:
		log.Trace().Msg("Presence unknown")
	}

	m.publish(ctx, s, event.Status{
		DeviceName:  s.PairedName,
		Address:     s.Paired.String(),
		LastSeen:    s.LastSeenMs,
		LastRSSI:    s.LastRSSI,
		Status:      s.Presence.String(),
		Location:    m.site.MapsLink(),
		Department:  string(s.Department.Current),
		Orientation: s.Orientation.String(),
		Temperature: event.Temperature(s.TemperatureC),
	})

	if s.BroadcastLocation && next == PresenceHere {
		m.publishLocation(ctx, s)
	}
}

func (m *Monitor) publishFall(ctx context.Context, s *State) {
	m.publish(ctx, s, event.Falling{
		Alert:       event.AlertFalling,
		DeviceName:  s.PairedName,
		Address:     s.Paired.String(),
		Status:      s.Presence.String(),
		Location:    m.site.MapsLink(),
		Department:  string(s.Department.Current),
		Orientation: s.Orientation.String(),
		Temperature: event.Temperature(s.TemperatureC),
	})
	log.Error().Msg("Fall alert published")
}

func (m *Monitor) publishPeriodicStatus(ctx context.Context, s *State) {
	m.publish(ctx, s, event.PeriodicStatus{
		Orientation: s.Orientation.String(),
		Department:  string(s.Department.Current),
		Temperature: event.Temperature(s.TemperatureC),
		Timestamp:   millis(m.clock),
	})
	log.Info().
		Str("orientation", s.Orientation.String()).
		Str("department", string(s.Department.Current)).
		Float64("temperature", s.TemperatureC).
		Msg("Periodic status")
}

func (m *Monitor) publishLocation(ctx context.Context, s *State) {
	link := m.site.MapsLink()
	m.publish(ctx, s, event.Location{
		DeviceName:  s.PairedName,
		Lat:         event.Coordinate(m.site.Latitude),
		Lon:         event.Coordinate(m.site.Longitude),
		RSSI:        s.LastRSSI,
		Link:        link,
		Department:  string(s.Department.Current),
		Orientation: s.Orientation.String(),
		Temperature: event.Temperature(s.TemperatureC),
	})
	log.Info().Str("link", link).Msg("Location sent")
}

func (m *Monitor) publish(ctx context.Context, s *State, ev event.Event) {
	if err := s.Gate.Publish(ctx, m.clock, m.transport, ev); err != nil {
		log.Error().Err(err).Str("event", ev.Name()).Msg("Publish failed")
	}
}

// Execute applies cmd to s. Forced events bypass staleness checks and leave
// the fall and department state machines untouched apart from the current
// department.
func (m *Monitor) Execute(ctx context.Context, s *State, cmd Command) (Result, error) {
	res := Result{Command: cmd.Raw}

	switch cmd.Kind {
	case CommandEnableLocation:
		s.BroadcastLocation = true
		log.Info().Msg("Location broadcast enabled")
		res.Code = ResultEnabled

	case CommandDisableLocation:
		s.BroadcastLocation = false
		log.Info().Msg("Location broadcast disabled")
		res.Code = ResultDisabled

	case CommandFall:
		log.Warn().Msg("Manual fall alert triggered")
		m.publishFall(ctx, s)
		res.Code = ResultFall

	case CommandDepartment:
		b, i, ok := s.Department.ByKey(cmd.Beacon)
		if !ok {
			return m.reject(cmd.Raw, s)
		}
		log.Info().Str("department", string(b.Department)).Msg("Manual department announcement")
		m.publish(ctx, s, s.Department.Force(b, millis(m.clock)))
		res.Code = DepartmentCode(i)
		res.Detail = string(b.Department)

	case CommandInfo:
		log.Info().Msg("Manual periodic status")
		m.publishPeriodicStatus(ctx, s)
		res.Code = ResultInfo

	case CommandToggleCommissioning:
		if s.Learning {
			s.Learning = false
			log.Info().Msg("Learning mode off")
			res.Code = ResultLearningOff
			break
		}
		s.Paired = device.Unset
		s.PairedName = ""
		s.Learning = true
		log.Info().Msg("Learning mode on; keep the device to track nearby")
		res.Code = ResultLearningOn

	default:
		return m.reject(cmd.Raw, s)
	}

	return res, nil
}

func (m *Monitor) reject(raw string, s *State) (Result, error) {
	help := CommandHelp(s.Department.Beacons)
	log.Error().Str("command", raw).Str("help", help).Msg("Invalid command")
	return Result{Code: ResultInvalid, Command: raw, Detail: help}, ErrInvalidCommand
}

// Dispatch queues a text command for the loop and waits for its result.
func (m *Monitor) Dispatch(ctx context.Context, raw string) (Result, error) {
	return m.submit(ctx, request{raw: raw, parse: true})
}

// ToggleCommissioning queues a learning-mode toggle, as the mode button does.
func (m *Monitor) ToggleCommissioning(ctx context.Context) (Result, error) {
	return m.submit(ctx, request{cmd: Command{Kind: CommandToggleCommissioning, Raw: "commission"}})
}

// ReloadBeacons replaces the department beacon table between cycles.
func (m *Monitor) ReloadBeacons(ctx context.Context, beacons []Beacon) error {
	_, err := m.submit(ctx, request{apply: func(s *State) {
		s.Department.SetBeacons(beacons)
		log.Info().Int("beacons", len(beacons)).Msg("Department beacons reloaded")
	}})
	return err
}

// SetSite changes the position reported in subsequent events.
func (m *Monitor) SetSite(ctx context.Context, site Site) error {
	_, err := m.submit(ctx, request{apply: func(*State) {
		m.site = site
		log.Info().Float64("latitude", site.Latitude).Float64("longitude", site.Longitude).Msg("Site updated")
	}})
	return err
}

func (m *Monitor) submit(ctx context.Context, req request) (Result, error) {
	req.reply = make(chan reply, 1)

	select {
	case m.requests <- req:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.result, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// drain handles queued requests between cycles.
func (m *Monitor) drain(ctx context.Context, s *State) {
	for {
		select {
		case req := <-m.requests:
			if req.apply != nil {
				req.apply(s)
				req.reply <- reply{}
				m.storeSnapshot(s)
				continue
			}
			cmd := req.cmd
			if req.parse {
				parsed, err := ParseCommand(req.raw, s.Department.Beacons)
				if err != nil {
					res, rejErr := m.reject(req.raw, s)
					req.reply <- reply{result: res, err: rejErr}
					continue
				}
				cmd = parsed
			}
			res, err := m.Execute(ctx, s, cmd)
			req.reply <- reply{result: res, err: err}
			m.storeSnapshot(s)
		default:
			return
		}
	}
}

func (m *Monitor) storeSnapshot(s *State) {
	snap := s.snapshot()
	snap.UptimeMs = millis(m.clock)
	snap.MotionConnected = m.motion.IsConnected()
	snap.ScannerConnected = m.scanner.IsConnected()
	snap.TransportConnected = m.transport.IsConnected()

	m.snapshotMu.Lock()
	m.snapshot = snap
	m.snapshotMu.Unlock()
}

// Snapshot returns the state as of the end of the last cycle.
func (m *Monitor) Snapshot() Snapshot {
	m.snapshotMu.RLock()
	defer m.snapshotMu.RUnlock()
	return m.snapshot
}

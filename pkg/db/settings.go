package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/urmzd/wardwatch/pkg/monitor"
)

// ErrInvalidSite is returned for coordinates outside the valid range.
var ErrInvalidSite = errors.New("invalid site coordinates")

// Settings is the editable configuration of one profile.
type Settings struct {
	db        *DB
	profileID int64
}

// Settings returns the settings of profileID.
func (db *DB) Settings(profileID int64) *Settings {
	return &Settings{db: db, profileID: profileID}
}

func (s *Settings) Beacons(ctx context.Context) ([]monitor.Beacon, error) {
	return s.db.Beacons().List(ctx, s.profileID)
}

func (s *Settings) Beacon(ctx context.Context, key string) (monitor.Beacon, error) {
	return s.db.Beacons().Get(ctx, s.profileID, key)
}

func (s *Settings) SaveBeacon(ctx context.Context, b monitor.Beacon) (monitor.Beacon, error) {
	return s.db.Beacons().Save(ctx, s.profileID, b)
}

func (s *Settings) DeleteBeacon(ctx context.Context, key string) error {
	return s.db.Beacons().Delete(ctx, s.profileID, key)
}

// Site returns the profile's coordinates.
func (s *Settings) Site(ctx context.Context) (monitor.Site, error) {
	p, err := s.db.Profiles().Get(ctx, s.profileID)
	if err != nil {
		return monitor.Site{}, err
	}
	return monitor.Site{Latitude: p.Latitude, Longitude: p.Longitude}, nil
}

// SaveSite stores new coordinates for the profile.
func (s *Settings) SaveSite(ctx context.Context, site monitor.Site) error {
	if site.Latitude < -90 || site.Latitude > 90 || site.Longitude < -180 || site.Longitude > 180 {
		return fmt.Errorf("%w: %v,%v", ErrInvalidSite, site.Latitude, site.Longitude)
	}
	p, err := s.db.Profiles().Get(ctx, s.profileID)
	if err != nil {
		return err
	}
	p.Latitude = site.Latitude
	p.Longitude = site.Longitude
	return s.db.Profiles().Update(ctx, p)
}

// Broker returns the profile's MQTT broker config.
func (s *Settings) Broker(ctx context.Context) (*Broker, error) {
	return s.db.Brokers().Get(ctx, s.profileID)
}

// SaveBroker stores b as the profile's broker. An empty client ID or
// password keeps the stored value; a missing client ID is generated.
func (s *Settings) SaveBroker(ctx context.Context, b *Broker) error {
	b.ProfileID = s.profileID

	current, err := s.Broker(ctx)
	switch {
	case err == nil:
		if b.ClientID == "" {
			b.ClientID = current.ClientID
		}
		if b.Password == "" {
			b.Password = current.Password
		}
	case errors.Is(err, ErrBrokerNotFound):
		if b.ClientID == "" {
			b.ClientID = DefaultClientID()
		}
	default:
		return err
	}

	return s.db.Brokers().Save(ctx, b)
}

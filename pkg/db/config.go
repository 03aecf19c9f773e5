package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/urmzd/wardwatch/pkg/monitor"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config is the runtime configuration of the active profile.
type Config struct {
	Profile   *Profile
	APIServer *APIServer
	Broker    *Broker
	Beacons   []monitor.Beacon
}

// APIAddress returns the API server listen address.
func (c *Config) APIAddress() string {
	if c.APIServer == nil {
		return fmt.Sprintf("%s:%d", DefaultAPIHost, DefaultAPIPort)
	}
	return c.APIServer.Address()
}

// Site returns the position reported in events.
func (c *Config) Site() monitor.Site {
	if c.Profile == nil {
		return monitor.Site{Latitude: DefaultLatitude, Longitude: DefaultLongitude}
	}
	return monitor.Site{Latitude: c.Profile.Latitude, Longitude: c.Profile.Longitude}
}

// ActiveConfig loads the complete configuration of the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{Profile: profile}

	config.APIServer, err = db.APIServers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAPIServerNotFound) {
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}

	config.Broker, err = db.Brokers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrBrokerNotFound) {
		return nil, fmt.Errorf("failed to get broker config: %w", err)
	}

	config.Beacons, err = db.Beacons().List(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get beacons: %w", err)
	}

	return config, nil
}

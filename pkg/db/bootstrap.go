package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/urmzd/wardwatch/pkg/monitor"
)

// Defaults written on first run.
const (
	DefaultLatitude    = 10.0266
	DefaultLongitude   = 76.3119
	DefaultAPIHost     = "0.0.0.0"
	DefaultAPIPort     = 8080
	DefaultBrokerURL   = "tcp://localhost:1883"
	DefaultTopicPrefix = "wardwatch"
)

// Bootstrap creates the default profile, API server, broker and beacons if the
// database has no profiles yet.
func (db *DB) Bootstrap(ctx context.Context) error {
	needed, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !needed {
		return nil
	}

	return db.Tx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (name, latitude, longitude, is_active)
			VALUES ('default', ?, ?, 1)
		`, DefaultLatitude, DefaultLongitude)
		if err != nil {
			return fmt.Errorf("failed to create default profile: %w", err)
		}
		profileID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get profile ID: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO api_servers (profile_id, host, port) VALUES (?, ?, ?)
		`, profileID, DefaultAPIHost, DefaultAPIPort); err != nil {
			return fmt.Errorf("failed to create default API server: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO mqtt_brokers (profile_id, url, client_id, topic_prefix) VALUES (?, ?, ?, ?)
		`, profileID, DefaultBrokerURL, DefaultClientID(), DefaultTopicPrefix); err != nil {
			return fmt.Errorf("failed to create default broker: %w", err)
		}

		for _, b := range monitor.DefaultBeacons() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO beacons (profile_id, key, address, department) VALUES (?, ?, ?, ?)
			`, profileID, b.Key, b.Address.String(), string(b.Department)); err != nil {
				return fmt.Errorf("failed to create beacon %q: %w", b.Key, err)
			}
		}

		return nil
	})
}

// NeedsBootstrap reports whether the database has no profiles.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// DefaultClientID returns a fresh MQTT client ID.
func DefaultClientID() string {
	return "wardwatch-" + uuid.NewString()
}

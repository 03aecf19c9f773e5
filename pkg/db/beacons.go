package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/monitor"
)

var (
	ErrBeaconNotFound = errors.New("beacon not found")
	ErrBeaconConflict = errors.New("beacon address already assigned")
)

// BeaconStore manages the department beacons of a profile. Keys are stored
// normalized with monitor.NormalizeBeaconKey.
type BeaconStore interface {
	List(ctx context.Context, profileID int64) ([]monitor.Beacon, error)
	Get(ctx context.Context, profileID int64, key string) (monitor.Beacon, error)
	Save(ctx context.Context, profileID int64, b monitor.Beacon) (monitor.Beacon, error)
	Delete(ctx context.Context, profileID int64, key string) error
}

// Beacons returns a BeaconStore for this database.
func (db *DB) Beacons() BeaconStore {
	return &beaconStore{db: db}
}

type beaconStore struct {
	db *DB
}

func scanBeacon(row rowScanner) (monitor.Beacon, error) {
	var key, addr, department string
	if err := row.Scan(&key, &addr, &department); err != nil {
		return monitor.Beacon{}, err
	}
	a, err := device.ParseAddress(addr)
	if err != nil {
		return monitor.Beacon{}, fmt.Errorf("beacon %q: %w", key, err)
	}
	return monitor.Beacon{Key: key, Address: a, Department: monitor.Department(department)}, nil
}

// List returns the beacons of a profile in insertion order.
func (s *beaconStore) List(ctx context.Context, profileID int64) ([]monitor.Beacon, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, address, department FROM beacons WHERE profile_id = ? ORDER BY id
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var beacons []monitor.Beacon
	for rows.Next() {
		b, err := scanBeacon(rows)
		if err != nil {
			return nil, err
		}
		beacons = append(beacons, b)
	}
	return beacons, rows.Err()
}

func (s *beaconStore) Get(ctx context.Context, profileID int64, key string) (monitor.Beacon, error) {
	key, err := monitor.NormalizeBeaconKey(key)
	if err != nil {
		return monitor.Beacon{}, ErrBeaconNotFound
	}
	b, err := scanBeacon(s.db.QueryRowContext(ctx, `
		SELECT key, address, department FROM beacons WHERE profile_id = ? AND key = ?
	`, profileID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return monitor.Beacon{}, ErrBeaconNotFound
	}
	return b, err
}

// Save inserts or replaces the beacon with b.Key and returns it as stored.
func (s *beaconStore) Save(ctx context.Context, profileID int64, b monitor.Beacon) (monitor.Beacon, error) {
	key, err := monitor.NormalizeBeaconKey(b.Key)
	if err != nil {
		return monitor.Beacon{}, err
	}
	b.Key = key

	var owner string
	err = s.db.QueryRowContext(ctx, `
		SELECT key FROM beacons WHERE profile_id = ? AND address = ? AND key <> ?
	`, profileID, b.Address.String(), b.Key).Scan(&owner)
	switch {
	case err == nil:
		return monitor.Beacon{}, fmt.Errorf("%w: %s is beacon %q", ErrBeaconConflict, b.Address, owner)
	case !errors.Is(err, sql.ErrNoRows):
		return monitor.Beacon{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO beacons (profile_id, key, address, department)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (profile_id, key) DO UPDATE SET
			address = excluded.address,
			department = excluded.department
	`, profileID, b.Key, b.Address.String(), string(b.Department))
	if err != nil {
		return monitor.Beacon{}, fmt.Errorf("failed to save beacon %q: %w", b.Key, err)
	}
	return b, nil
}

func (s *beaconStore) Delete(ctx context.Context, profileID int64, key string) error {
	key, err := monitor.NormalizeBeaconKey(key)
	if err != nil {
		return ErrBeaconNotFound
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM beacons WHERE profile_id = ? AND key = ?`, profileID, key)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrBeaconNotFound)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrBrokerNotFound = errors.New("mqtt broker config not found")

// Broker is the MQTT broker events are published to.
type Broker struct {
	ID          int64
	ProfileID   int64
	URL         string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// BrokerStore provides MQTT broker config operations.
type BrokerStore interface {
	Get(ctx context.Context, profileID int64) (*Broker, error)
	Save(ctx context.Context, b *Broker) error
}

// Brokers returns a BrokerStore for this database.
func (db *DB) Brokers() BrokerStore {
	return &brokerStore{db: db}
}

type brokerStore struct {
	db *DB
}

func (s *brokerStore) Get(ctx context.Context, profileID int64) (*Broker, error) {
	b := &Broker{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, url, client_id, topic_prefix, username, password
		FROM mqtt_brokers WHERE profile_id = ?
	`, profileID).Scan(&b.ID, &b.ProfileID, &b.URL, &b.ClientID, &b.TopicPrefix, &b.Username, &b.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBrokerNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Save inserts or replaces the broker of b.ProfileID.
func (s *brokerStore) Save(ctx context.Context, b *Broker) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO mqtt_brokers (profile_id, url, client_id, topic_prefix, username, password)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (profile_id) DO UPDATE SET
			url = excluded.url,
			client_id = excluded.client_id,
			topic_prefix = excluded.topic_prefix,
			username = excluded.username,
			password = excluded.password
		RETURNING id
	`, b.ProfileID, b.URL, b.ClientID, b.TopicPrefix, b.Username, b.Password).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to save mqtt broker: %w", err)
	}
	return nil
}

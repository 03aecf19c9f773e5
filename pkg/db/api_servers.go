package db

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strconv"
)

var ErrAPIServerNotFound = errors.New("api server config not found")

// APIServer is the REST control surface listen address of a profile.
type APIServer struct {
	ID        int64
	ProfileID int64
	Host      string
	Port      int
}

// Address returns host:port.
func (a *APIServer) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// APIServerStore reads the API server config.
type APIServerStore interface {
	Get(ctx context.Context, profileID int64) (*APIServer, error)
}

// APIServers returns an APIServerStore for this database.
func (db *DB) APIServers() APIServerStore {
	return &apiServerStore{db: db}
}

type apiServerStore struct {
	db *DB
}

func (s *apiServerStore) Get(ctx context.Context, profileID int64) (*APIServer, error) {
	a := &APIServer{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, host, port FROM api_servers WHERE profile_id = ?
	`, profileID).Scan(&a.ID, &a.ProfileID, &a.Host, &a.Port)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAPIServerNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/urmzd/wardwatch/pkg/device"
)

var ErrPairingNotFound = errors.New("pairing not found")

// PairedIdentitySlot is the slot holding the tracked identity.
const PairedIdentitySlot = 10

// Pairing is a stored remote identity.
type Pairing struct {
	Slot      int
	Address   device.Address
	Name      string
	UpdatedAt time.Time
}

// PairingStore reads and writes pairing slots.
type PairingStore interface {
	Get(ctx context.Context, slot int) (*Pairing, error)
	Save(ctx context.Context, p *Pairing) error
}

// Pairings returns a PairingStore for this database.
func (db *DB) Pairings() PairingStore {
	return &pairingStore{db: db}
}

type pairingStore struct {
	db *DB
}

func (s *pairingStore) Get(ctx context.Context, slot int) (*Pairing, error) {
	p := &Pairing{Slot: slot}
	var addr, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT address, name, updated_at FROM pairings WHERE slot = ?
	`, slot).Scan(&addr, &p.Name, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPairingNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Address, err = device.ParseAddress(addr); err != nil {
		return nil, fmt.Errorf("pairing slot %d: %w", slot, err)
	}
	p.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return p, nil
}

func (s *pairingStore) Save(ctx context.Context, p *Pairing) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pairings (slot, address, name) VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			address = excluded.address,
			name = excluded.name,
			updated_at = datetime('now')
	`, p.Slot, p.Address.String(), p.Name)
	if err != nil {
		return fmt.Errorf("failed to save pairing slot %d: %w", p.Slot, err)
	}
	return nil
}

// IdentitySlot persists the monitor's paired identity in one slot.
type IdentitySlot struct {
	store PairingStore
	slot  int
}

// Identity returns the IdentitySlot for the tracked identity.
func (db *DB) Identity() *IdentitySlot {
	return &IdentitySlot{store: db.Pairings(), slot: PairedIdentitySlot}
}

// Load returns the stored identity, or device.Unset when the slot is empty.
func (i *IdentitySlot) Load(ctx context.Context) (device.Address, string, error) {
	p, err := i.store.Get(ctx, i.slot)
	if errors.Is(err, ErrPairingNotFound) {
		return device.Unset, "", nil
	}
	if err != nil {
		return device.Unset, "", err
	}
	return p.Address, p.Name, nil
}

// SaveIdentity stores addr and name in the slot.
func (i *IdentitySlot) SaveIdentity(ctx context.Context, addr device.Address, name string) error {
	return i.store.Save(ctx, &Pairing{Slot: i.slot, Address: addr, Name: name})
}

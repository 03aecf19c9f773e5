package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/monitor"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "wardwatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))
	version, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, currentSchemaVersion, version)
}

func TestBootstrap_Defaults(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	needed, err := db.NeedsBootstrap(ctx)
	require.NoError(t, err)
	require.True(t, needed)

	require.NoError(t, db.Bootstrap(ctx))
	require.NoError(t, db.Bootstrap(ctx), "second bootstrap must be a no-op")

	cfg, err := db.ActiveConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Profile.Name)
	require.Equal(t, monitor.Site{Latitude: DefaultLatitude, Longitude: DefaultLongitude}, cfg.Site())
	require.Equal(t, "0.0.0.0:8080", cfg.APIAddress())

	require.NotNil(t, cfg.Broker)
	require.Equal(t, DefaultBrokerURL, cfg.Broker.URL)
	require.Equal(t, DefaultTopicPrefix, cfg.Broker.TopicPrefix)
	require.True(t, strings.HasPrefix(cfg.Broker.ClientID, "wardwatch-"))

	require.Equal(t, monitor.DefaultBeacons(), cfg.Beacons)
}

func TestActiveConfig_NoProfile(t *testing.T) {
	db := openTestDB(t)

	_, err := db.ActiveConfig(context.Background())
	require.ErrorIs(t, err, ErrNoActiveProfile)
}

func activeSettings(t *testing.T, db *DB) (*Settings, *Config) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Bootstrap(ctx))
	cfg, err := db.ActiveConfig(ctx)
	require.NoError(t, err)
	return db.Settings(cfg.Profile.ID), cfg
}

func TestSettings_Beacons(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	settings, _ := activeSettings(t, db)

	icu := monitor.Beacon{Key: " ICU ", Address: device.MustParseAddress("AA:BB:CC:DD:EE:09"), Department: "ICU"}
	saved, err := settings.SaveBeacon(ctx, icu)
	require.NoError(t, err)
	require.Equal(t, "icu", saved.Key)

	got, err := settings.Beacon(ctx, "Icu")
	require.NoError(t, err)
	require.Equal(t, saved, got)

	cardiac := monitor.Beacon{Key: "arg2", Address: device.MustParseAddress("AA:BB:CC:DD:EE:0A"), Department: "Cardiac ward"}
	_, err = settings.SaveBeacon(ctx, cardiac)
	require.NoError(t, err)

	require.NoError(t, settings.DeleteBeacon(ctx, "ARG1"))
	require.ErrorIs(t, settings.DeleteBeacon(ctx, "arg1"), ErrBeaconNotFound)

	beacons, err := settings.Beacons(ctx)
	require.NoError(t, err)
	require.Equal(t, []monitor.Beacon{cardiac, saved}, beacons, "replacing a key keeps its position")
}

func TestSettings_BeaconValidation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	settings, _ := activeSettings(t, db)

	_, err := settings.SaveBeacon(ctx, monitor.Beacon{Key: "info", Address: device.MustParseAddress("AA:BB:CC:DD:EE:09")})
	require.ErrorIs(t, err, monitor.ErrInvalidBeaconKey)

	_, err = settings.SaveBeacon(ctx, monitor.Beacon{Key: "icu", Address: monitor.DefaultBeacons()[0].Address, Department: "ICU"})
	require.ErrorIs(t, err, ErrBeaconConflict)

	_, err = settings.Beacon(ctx, "nope")
	require.ErrorIs(t, err, ErrBeaconNotFound)
}

func TestSettings_Site(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	settings, cfg := activeSettings(t, db)

	site := monitor.Site{Latitude: 12.5, Longitude: 77.25}
	require.NoError(t, settings.SaveSite(ctx, site))
	require.ErrorIs(t, settings.SaveSite(ctx, monitor.Site{Latitude: 91}), ErrInvalidSite)

	got, err := settings.Site(ctx)
	require.NoError(t, err)
	require.Equal(t, site, got)

	reloaded, err := db.ActiveConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, site, reloaded.Site())
	require.Equal(t, cfg.Profile.Name, reloaded.Profile.Name)

	require.ErrorIs(t, db.Settings(999).SaveSite(ctx, site), ErrProfileNotFound)
}

func TestSettings_Broker(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	settings, cfg := activeSettings(t, db)

	b := &Broker{URL: "ssl://broker.example:8883", TopicPrefix: "ward-b", Username: "tag", Password: "secret"}
	require.NoError(t, settings.SaveBroker(ctx, b))
	require.Equal(t, cfg.Broker.ID, b.ID)
	require.Equal(t, cfg.Broker.ClientID, b.ClientID, "empty client ID keeps the stored one")

	require.NoError(t, settings.SaveBroker(ctx, &Broker{URL: "tcp://other:1883", TopicPrefix: "ward-b", Username: "tag"}))

	got, err := settings.Broker(ctx)
	require.NoError(t, err)
	require.Equal(t, "tcp://other:1883", got.URL)
	require.Equal(t, "secret", got.Password, "empty password keeps the stored one")
}

func TestIdentitySlot_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	slot := db.Identity()

	addr, name, err := slot.Load(ctx)
	require.NoError(t, err)
	require.True(t, addr.IsUnset())
	require.Empty(t, name)

	watch := device.MustParseAddress("66:55:44:33:22:11")
	require.NoError(t, slot.SaveIdentity(ctx, watch, "Watch"))
	require.NoError(t, slot.SaveIdentity(ctx, watch, "Watch 2"))

	addr, name, err = slot.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, watch, addr)
	require.Equal(t, "Watch 2", name)

	p, err := db.Pairings().Get(ctx, PairedIdentitySlot)
	require.NoError(t, err)
	require.Equal(t, PairedIdentitySlot, p.Slot)
	require.False(t, p.UpdatedAt.IsZero())

	_, err = db.Pairings().Get(ctx, PairedIdentitySlot+1)
	require.ErrorIs(t, err, ErrPairingNotFound)
}

func TestIdentitySlot_SatisfiesMonitorStore(t *testing.T) {
	var _ monitor.IdentityStore = (*IdentitySlot)(nil)
}

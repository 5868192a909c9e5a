package bootstrap

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"coown-backend/internal/config"
	"coown-backend/internal/domain"
	"coown-backend/internal/infrastructure/persistence"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		LogLevel:           "error",
		PersistenceBackend: config.BackendNone,
		SnapshotKey:        "bootstrap-test",
		PersistTimeout:     time.Second,
	}
}

func TestBuild_NoPersistenceUsesSeed(t *testing.T) {
	rt, err := Build(context.Background(), baseConfig())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Writer)
	assert.Len(t, rt.Store.Properties(""), 36)

	resp, err := rt.App.Test(httptest.NewRequest("GET", "/api/v1/properties", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestBuild_DatabaseBackendRoundTrip(t *testing.T) {
	cfg := baseConfig()
	cfg.PersistenceBackend = config.BackendDatabase
	cfg.DatabaseURL = "sqlite::memory:"

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()
	require.NotNil(t, rt.Writer)
	assert.Equal(t, "database", rt.Writer.Adapter().Name())

	p := rt.Store.Properties(domain.StatusVotingOpen)[0]
	require.True(t, rt.Store.CreateReservation(context.Background(), p.ID, 1000).OK)
	rt.Writer.Flush()

	snap, source, err := InitialSnapshot(context.Background(), rt.Writer.Adapter(), "")
	require.NoError(t, err)
	assert.Equal(t, "database", source)
	live := rt.Store.Snapshot()
	require.Len(t, snap.Reservations, len(live.Reservations))
	for i := range live.Reservations {
		assert.Equal(t, live.Reservations[i].ID, snap.Reservations[i].ID)
		assert.Equal(t, live.Reservations[i].Amount, snap.Reservations[i].Amount)
	}
	assert.Len(t, snap.DemandEvents, 1)
}

func TestBuild_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.PersistenceBackend = config.BackendRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()
	require.NotNil(t, rt.Writer)
	assert.Equal(t, "redis", rt.Writer.Adapter().Name())
	assert.NotNil(t, rt.Resources.Rdb)
}

func TestBuild_MisconfiguredBackendRunsWithoutPersistence(t *testing.T) {
	cfg := baseConfig()
	cfg.PersistenceBackend = config.BackendRedis

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.Writer)
}

func TestNewAdapter(t *testing.T) {
	cfg := baseConfig()
	a, err := NewAdapter(context.Background(), cfg, Resources{})
	require.NoError(t, err)
	assert.Nil(t, a)

	cfg.PersistenceBackend = "tape"
	_, err = NewAdapter(context.Background(), cfg, Resources{})
	assert.True(t, errors.Is(err, ErrUnknownBackend))

	cfg.PersistenceBackend = config.BackendDatabase
	_, err = NewAdapter(context.Background(), cfg, Resources{})
	assert.Error(t, err)

	cfg.PersistenceBackend = config.BackendS3
	_, err = NewAdapter(context.Background(), cfg, Resources{})
	assert.Error(t, err)
}

type failingAdapter struct{ persistence.Adapter }

func (failingAdapter) Name() string { return "broken" }

func (failingAdapter) Load(context.Context) (domain.Snapshot, bool, error) {
	return domain.Snapshot{}, false, errors.New("unreachable")
}

func TestInitialSnapshot_LoadFailureFallsBackToSeed(t *testing.T) {
	snap, source, err := InitialSnapshot(context.Background(), failingAdapter{}, "")
	require.NoError(t, err)
	assert.Equal(t, "seed", source)
	assert.NotEmpty(t, snap.Properties)
}

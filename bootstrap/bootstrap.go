package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"coown-backend/internal/application/analytics"
	"coown-backend/internal/application/demand"
	"coown-backend/internal/config"
	"coown-backend/internal/domain"
	"coown-backend/internal/infrastructure/database"
	"coown-backend/internal/infrastructure/persistence"
	"coown-backend/internal/infrastructure/seed"
	"coown-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrUnknownBackend = errors.New("bootstrap: unknown persistence backend")

// Runtime is everything a process needs to serve the API.
type Runtime struct {
	Config    *config.Config
	App       *fiber.App
	Store     *demand.Service
	Analytics *analytics.Service
	// Writer is nil when no persistence backend is active.
	Writer    *persistence.Writer
	Resources Resources
}

// Close releases the database pool and the redis client.
func (r *Runtime) Close() error {
	return r.Resources.Close()
}

// Resources are the shared connections opened from config. Either may be nil.
type Resources struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// OpenResources connects to the database and redis when their URLs are set.
func OpenResources(cfg *config.Config) (Resources, error) {
	var res Resources
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return res, fmt.Errorf("bootstrap: open database: %w", err)
		}
		res.DB = db
	}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = res.Close()
			return Resources{}, fmt.Errorf("bootstrap: parse redis url: %w", err)
		}
		res.Rdb = redis.NewClient(opts)
	}
	return res, nil
}

func (r Resources) Close() error {
	var errs []error
	if r.Rdb != nil {
		errs = append(errs, r.Rdb.Close())
	}
	errs = append(errs, database.Close(r.DB))
	return errors.Join(errs...)
}

// NewAdapter returns the snapshot adapter selected by PERSISTENCE_BACKEND, or
// nil for "none".
func NewAdapter(ctx context.Context, cfg *config.Config, res Resources) (persistence.Adapter, error) {
	switch cfg.PersistenceBackend {
	case "", config.BackendNone:
		return nil, nil
	case config.BackendRedis:
		if res.Rdb == nil {
			return nil, errors.New("bootstrap: redis backend needs REDIS_URL")
		}
		return persistence.NewRedisAdapter(res.Rdb, cfg.SnapshotKey), nil
	case config.BackendDatabase:
		if res.DB == nil {
			return nil, errors.New("bootstrap: database backend needs DATABASE_URL")
		}
		a, err := persistence.NewGormAdapter(res.DB, cfg.SnapshotKey)
		if err != nil {
			return nil, err
		}
		return a, nil
	case config.BackendS3:
		a, err := persistence.NewS3Adapter(ctx, persistence.S3Config{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, cfg.SnapshotKey)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.PersistenceBackend)
	}
}

// ConfigureLogging sets the global zerolog level and, outside production,
// a human-readable console writer.
func ConfigureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// InitialSnapshot returns the persisted snapshot when the adapter has a usable
// one, and the seed otherwise. Load failures fall back to the seed.
func InitialSnapshot(ctx context.Context, adapter persistence.Adapter, seedFile string) (domain.Snapshot, string, error) {
	if adapter != nil {
		snap, ok, err := adapter.Load(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("backend", adapter.Name()).Msg("load persisted snapshot; using seed")
		case ok:
			return snap, adapter.Name(), nil
		}
	}
	snap, err := seed.Load(seedFile)
	return snap, "seed", err
}

// Build wires config into a ready runtime. A persistence backend that cannot
// be set up is logged and the service runs without persistence.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	res, err := OpenResources(cfg)
	if err != nil {
		return nil, err
	}

	adapter, err := NewAdapter(ctx, cfg, res)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.PersistenceBackend).Msg("persistence disabled")
		adapter = nil
	}

	snap, source, err := InitialSnapshot(ctx, adapter, cfg.SeedFile)
	if err != nil {
		_ = res.Close()
		return nil, err
	}

	rt := &Runtime{Config: cfg, Resources: res}
	opts := demand.Options{}
	if adapter != nil {
		rt.Writer = persistence.NewWriter(adapter, cfg.PersistTimeout)
		opts.Persister = rt.Writer
	}
	rt.Store = demand.New(snap, opts)
	rt.Analytics = analytics.NewService(rt.Store)

	deps := router.Deps{
		Config:    cfg,
		Store:     rt.Store,
		Analytics: rt.Analytics,
		Writer:    rt.Writer,
		Rdb:       res.Rdb,
		Seed:      func() (domain.Snapshot, error) { return seed.Load(cfg.SeedFile) },
	}
	if res.DB != nil {
		deps.DB = &database.Pinger{DB: res.DB}
	}
	rt.App = router.CreateApp(deps)

	log.Info().
		Str("env", cfg.Env).
		Str("snapshot_source", source).
		Int("properties", len(snap.Properties)).
		Int("events", len(snap.DemandEvents)).
		Msg("demand store ready")
	return rt, nil
}

// New creates the Fiber app for serverless hosting (api handler imports this
// package, not internal). The persistence writer runs for the process lifetime.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	ConfigureLogging(cfg)
	rt, err := Build(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if rt.Writer != nil {
		go func() { _ = rt.Writer.Run(context.Background()) }()
	}
	return rt.App, nil
}

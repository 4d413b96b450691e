package repository

import (
	"context"
	"fmt"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/config"
	"github.com/facussc24/2026-sub001/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Backend is the catalog store selected by configuration, already wrapped
// with the circuit breaker and, when redis is configured, the component
// cache.
type Backend struct {
	Store   catalog.Store
	Breaker *infra.CircuitBreaker
	Redis   *redis.Client
	closers []func()
}

// Close releases every connection opened by Open.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open connects the store named by cfg.StoreDriver. An empty REDIS_URL
// disables the cache and returns a nil Redis client.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	var base catalog.Store
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		base = catalog.NewMemStore()

	case config.StorePostgres:
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		b.closers = append(b.closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		base = NewPostgresStore(db)

	case config.StoreMongo:
		mdb, err := infra.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		b.closers = append(b.closers, func() { _ = mdb.Client().Disconnect(context.Background()) })
		ms := NewMongoStore(mdb)
		if err := ms.EnsureIndexes(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		base = ms

	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.StoreDriver)
	}

	cbCfg := infra.DefaultCBConfig()
	cbCfg.FailureThreshold = cfg.BreakerFailures
	cbCfg.OpenTimeout = cfg.BreakerOpenTimeout()
	guarded := catalog.NewGuardedStore(base, cbCfg)
	b.Breaker = guarded.Breaker()
	b.Store = guarded

	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		b.Redis = rdb
		b.Store = catalog.NewCachedStore(guarded, rdb, cfg.CacheTTL())
	}

	log.Info().Str("driver", cfg.StoreDriver).Bool("cache", b.Redis != nil).Msg("catalogo conectado")
	return b, nil
}

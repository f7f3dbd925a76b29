package cmd

import (
	"context"
	"fmt"

	"chapkhane/internal/bot/state_manager"
	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"
	"chapkhane/internal/storage"
	"chapkhane/internal/storage/memory"
	redisstore "chapkhane/internal/storage/redis"
	"chapkhane/pkg/redis"

	"go.uber.org/zap"
)

// backend is the set of stores a running storefront needs.
type backend struct {
	deps    shop.Deps
	dialogs state_manager.RedisStorage
	pg      *storage.PostgresStorage
	cache   *redis.Client
}

func openBackend(ctx context.Context, inMemory bool) (*backend, error) {
	b := &backend{deps: shop.Deps{Logger: appLogger}}

	if inMemory {
		appLogger.Warn("Using in-memory storage - data is lost on exit")
		b.deps.Orders = memory.NewOrderRepository()
		b.deps.Offerings = memory.NewOfferingRepository()
		b.deps.Messages = memory.NewMessageRepository()
		b.deps.Limiter = memory.NewLimiter(cfg.Limits.Requests, cfg.Limits.Window)
		b.dialogs = memory.NewDialogStore()
		return b, nil
	}

	pg, err := storage.NewPostgresStorage(ctx, cfg.Database, appLogger)
	if err != nil {
		return nil, err
	}
	b.pg = pg
	if err := storage.RunMigrations(ctx, pg.DB(), appLogger); err != nil {
		b.Close()
		return nil, err
	}
	b.deps.Orders = pg.Orders()
	b.deps.Offerings = pg.Offerings()
	b.deps.Messages = pg.Messages()

	if cfg.Redis.Enabled() {
		b.cache = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err := b.cache.Ping(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		b.deps.Limiter = redisstore.NewLimiter(b.cache, cfg.Limits.Requests, cfg.Limits.Window)
		b.dialogs = redisstore.New(b.cache)
	} else {
		appLogger.Warn("REDIS_ADDR not set - rate limits and bot dialogs stay in memory")
		b.deps.Limiter = memory.NewLimiter(cfg.Limits.Requests, cfg.Limits.Window)
		b.dialogs = memory.NewDialogStore()
	}

	b.deps.Catalogs = pg.Catalogs(b.cache, defaultCatalog())
	return b, nil
}

// service builds the storefront. With a catalog source the stored price
// tables replace the defaults.
func (b *backend) service(ctx context.Context) (*shop.Service, error) {
	engine, err := pricing.NewEngine(defaultCatalog())
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	svc := shop.NewService(engine, b.deps)

	if b.deps.Catalogs != nil {
		if err := svc.ReloadCatalog(ctx); err != nil {
			appLogger.Warn("Falling back to the default catalog", zap.Error(err))
		}
	}
	return svc, nil
}

func (b *backend) Close() {
	if b.cache != nil {
		b.cache.Close()
	}
	if b.pg != nil {
		if err := b.pg.Close(); err != nil {
			appLogger.Warn("Failed to close PostgreSQL", zap.Error(err))
		}
	}
}

package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"autotube/internal/config"
	"autotube/internal/ports"
)

// CloseFunc releases the connections behind a JobStore.
type CloseFunc func(ctx context.Context) error

// NewJobStore connects to the configured backend, verifies it answers and returns the store.
func NewJobStore(ctx context.Context, cfg config.StoreConfig) (ports.JobStore, CloseFunc, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryJobStore(nil), func(context.Context) error { return nil }, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		store := NewPostgresJobStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, func(context.Context) error { pool.Close(); return nil }, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisJobStore(rdb, cfg.RedisPrefix), func(context.Context) error { return rdb.Close() }, nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		return NewMongoJobStore(client, cfg.MongoDatabase), client.Disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

package kvstore

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"habitflow/pkg/config"
	"habitflow/pkg/db"
	redisclient "habitflow/pkg/redis"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open builds the backend named by cfg.Driver. The returned closer releases
// any connection the backend opened.
func Open(ctx context.Context, cfg config.StorageConfig, redisCfg config.RedisConfig, dbCfg config.DBConfig, logger *zap.Logger) (Store, io.Closer, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.QuotaBytes), nopCloser, nil

	case "file":
		dir := cfg.Dir
		if dir == "" {
			dir = "data"
		}
		f, err := NewFile(dir)
		if err != nil {
			return nil, nil, err
		}
		return f, nopCloser, nil

	case "redis":
		rdb, err := redisclient.NewRedisClient(redisCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewRedis(rdb, "habitflow:"), rdb, nil

	case "postgres":
		pool, err := db.NewConnection(dbCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		pg, err := NewPostgres(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, closerFunc(func() error { pool.Close(); return nil }), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

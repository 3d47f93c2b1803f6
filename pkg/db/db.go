package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitflow/pkg/config"
)

const (
	defaultMaxConns        = 4
	defaultMinConns        = 1
	defaultMaxConnIdleTime = time.Minute
	defaultSSLMode         = "disable"
)

// DSN renders cfg as a postgres URL. Credentials are escaped.
func DSN(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

// PoolConfig parses cfg into a pool configuration with the slow query tracer
// attached.
func PoolConfig(cfg config.DBConfig, logger *zap.Logger) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MinConns = defaultMinConns
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(min(cfg.MinConns, int(poolCfg.MaxConns)))
	}
	poolCfg.MaxConnIdleTime = defaultMaxConnIdleTime
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolCfg.ConnConfig.Tracer = NewSlowQueryTracer(logger, cfg.SlowQueryThreshold)
	return poolCfg, nil
}

func NewConnection(cfg config.DBConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing PostgreSQL connection pool",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully")
	return dbpool, nil
}

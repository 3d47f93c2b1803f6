// Package config assembles the server configuration from config/*.yaml and
// the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	pkgconfig "habitflow/pkg/config"
)

type StatsConfig struct {
	// DefaultRangeDays is the window stats use when neither the request nor
	// the stored state names a range.
	DefaultRangeDays int `yaml:"default_range_days"`
}

type Config struct {
	Server  pkgconfig.ServerConfig  `yaml:"server"`
	Storage pkgconfig.StorageConfig `yaml:"storage"`
	Redis   pkgconfig.RedisConfig   `yaml:"redis"`
	DB      pkgconfig.DBConfig      `yaml:"db"`
	MQ      pkgconfig.MQConfig      `yaml:"mq"`
	Log     pkgconfig.LogConfig     `yaml:"log"`
	Stats   StatsConfig             `yaml:"stats"`
}

func defaults() Config {
	return Config{
		Server:  pkgconfig.ServerConfig{Port: ":8080"},
		Storage: pkgconfig.StorageConfig{Driver: "file", Dir: "data"},
		Log:     pkgconfig.LogConfig{Level: "info"},
		Stats:   StatsConfig{DefaultRangeDays: 7},
	}
}

// Load reads dir/base.yaml and dir/<env>.yaml, then applies environment
// overrides. Fields missing from every source keep their defaults.
func Load(env, dir string) (*Config, error) {
	raw, err := pkgconfig.LoadConfig(env, dir)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := pkgconfig.Decode(raw, &cfg); err != nil {
		return nil, err
	}

	pkgconfig.OverrideServerFromEnv(&cfg.Server)
	pkgconfig.OverrideStorageFromEnv(&cfg.Storage)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideMQFromEnv(&cfg.MQ)
	pkgconfig.OverrideLogFromEnv(&cfg.Log)
	if days := os.Getenv("STATS_DEFAULT_RANGE_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			cfg.Stats.DefaultRangeDays = n
		}
	}

	if cfg.Stats.DefaultRangeDays < 1 {
		return nil, fmt.Errorf("stats.default_range_days must be positive, got %d", cfg.Stats.DefaultRangeDays)
	}
	return &cfg, nil
}

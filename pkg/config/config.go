package config

import (
	"os"
	"strconv"
	"time"
)

// DBConfig is the PostgreSQL connection used by the postgres storage driver.
// Zero pool and threshold values fall back to the pkg/db defaults.
type DBConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"sslmode"`
	MaxConns           int           `yaml:"max_conns"`
	MinConns           int           `yaml:"min_conns"`
	MaxConnIdleTime    time.Duration `yaml:"max_conn_idle_time"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
}

// MQConfig configures the event publisher. An empty URL disables it.
type MQConfig struct {
	URL       string        `yaml:"url"`
	Exchange  string        `yaml:"exchange"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// StorageConfig selects the key-value backend the state snapshot lives in.
type StorageConfig struct {
	Driver     string `yaml:"driver"` // memory, file, redis, postgres
	Key        string `yaml:"key"`
	Dir        string `yaml:"dir"`         // file driver
	QuotaBytes int    `yaml:"quota_bytes"` // memory driver, 0 = unlimited
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
	if n := os.Getenv("DB_MAX_CONNS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			cfg.MaxConns = v
		}
	}
	if d := os.Getenv("DB_SLOW_QUERY_THRESHOLD"); d != "" {
		if v, err := time.ParseDuration(d); err == nil {
			cfg.SlowQueryThreshold = v
		}
	}
}

func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
	if exchange := os.Getenv("MQ_EXCHANGE"); exchange != "" {
		cfg.Exchange = exchange
	}
}

func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.DB = n
		}
	}
}

func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

func OverrideStorageFromEnv(cfg *StorageConfig) {
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if key := os.Getenv("STORAGE_KEY"); key != "" {
		cfg.Key = key
	}
	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		cfg.Dir = dir
	}
}

func OverrideLogFromEnv(cfg *LogConfig) {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
}

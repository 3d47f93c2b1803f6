package mq

import (
	"testing"
	"time"

	"habitflow/pkg/config"
)

func TestExchangeName(t *testing.T) {
	if got := exchangeName(config.MQConfig{}); got != DefaultExchange {
		t.Errorf("expected default exchange, got %q", got)
	}
	if got := exchangeName(config.MQConfig{Exchange: "audit"}); got != "audit" {
		t.Errorf("expected configured exchange, got %q", got)
	}
}

func TestDialConfig(t *testing.T) {
	cfg := dialConfig(config.MQConfig{})
	if cfg.Heartbeat != defaultHeartbeat {
		t.Errorf("expected default heartbeat, got %s", cfg.Heartbeat)
	}
	if cfg.Properties["connection_name"] != connectionName {
		t.Errorf("expected connection name, got %v", cfg.Properties["connection_name"])
	}

	cfg = dialConfig(config.MQConfig{Heartbeat: 30 * time.Second})
	if cfg.Heartbeat != 30*time.Second {
		t.Errorf("expected configured heartbeat, got %s", cfg.Heartbeat)
	}
}

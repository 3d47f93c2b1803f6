package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"habitflow/pkg/trace"
)

func TestWithTraceAddsField(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := trace.WithContext(context.Background(), "abc123")
	WithTrace(ctx, base).Info("hello")
	WithTrace(context.Background(), base).Info("plain")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["trace_id"]; got != "abc123" {
		t.Errorf("expected trace_id abc123, got %v", got)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Error("expected no trace_id without one in context")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	l := NewLogger("debug")
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
	l = NewLogger("not-a-level")
	if l.Core().Enabled(zap.DebugLevel) {
		t.Error("expected fallback to info level")
	}
}

// Package kvstore provides the string key-value backends the state snapshot
// is written to.
package kvstore

import (
	"context"
	"errors"
	"time"

	"habitflow/pkg/metrics"
)

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store has get/set-string-by-key semantics. Get reports found=false for a
// missing key without an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

func observe(backend, op string, start time.Time) {
	metrics.RecordKVOperation(backend, op, time.Since(start))
}

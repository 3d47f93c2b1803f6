// Package persist serialises the application state to a single key-value
// entry and migrates older snapshots on load.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"habitflow/internal/kvstore"
	"habitflow/internal/model"
	"habitflow/pkg/logger"
	"habitflow/pkg/metrics"
)

const DefaultKey = "habit-tracker-state"

// snapshot is the stored document: {version, nodes, habitLogs, settings}.
type snapshot struct {
	Version int `json:"version"`
	model.State
}

type Persister struct {
	kv     kvstore.Store
	key    string
	logger *zap.Logger
}

func NewPersister(kv kvstore.Store, key string, logger *zap.Logger) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{kv: kv, key: key, logger: logger}
}

// Encode renders st as a current-version snapshot.
func Encode(st model.State) ([]byte, error) {
	data, err := json.Marshal(snapshot{Version: CurrentVersion, State: normalize(st)})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot of any known version into the current
// state. A panic inside a migration is returned as an error.
func Decode(data []byte) (st model.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("migrate snapshot: %v", r)
		}
	}()

	var shape Shape
	if err := json.Unmarshal(data, &shape); err != nil {
		return model.State{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if shape == nil {
		return model.State{}, fmt.Errorf("parse snapshot: not an object")
	}

	shape, err = Migrate(shape)
	if err != nil {
		return model.State{}, err
	}

	migrated, err := json.Marshal(shape)
	if err != nil {
		return model.State{}, fmt.Errorf("re-encode snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return model.State{}, fmt.Errorf("bind snapshot: %w", err)
	}
	return normalize(snap.State), nil
}

// Save writes st through to the backend. The error is also logged so callers
// that keep running on in-memory state may ignore it.
func (p *Persister) Save(ctx context.Context, st model.State) error {
	log := logger.WithTrace(ctx, p.logger)

	data, err := Encode(st)
	if err != nil {
		metrics.IncrementStateWrite("failed")
		log.Error("Failed to serialise state", zap.Error(err))
		return err
	}

	if err := p.kv.Set(ctx, p.key, string(data)); err != nil {
		metrics.IncrementStateWrite("failed")
		log.Error("Failed to write state",
			zap.String("key", p.key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("write state: %w", err)
	}

	metrics.IncrementStateWrite("success")
	log.Debug("State written", zap.String("key", p.key), zap.Int("bytes", len(data)))
	return nil
}

// Load reads and migrates the stored state. Any failure is logged and
// reported as ok=false so the caller starts from defaults.
func (p *Persister) Load(ctx context.Context) (model.State, bool) {
	log := logger.WithTrace(ctx, p.logger)

	raw, found, err := p.kv.Get(ctx, p.key)
	if err != nil {
		metrics.IncrementStateLoad("invalid")
		log.Warn("Failed to read stored state, starting empty", zap.String("key", p.key), zap.Error(err))
		return model.State{}, false
	}
	if !found {
		metrics.IncrementStateLoad("missing")
		log.Info("No stored state found", zap.String("key", p.key))
		return model.State{}, false
	}

	st, err := Decode([]byte(raw))
	if err != nil {
		metrics.IncrementStateLoad("invalid")
		log.Warn("Discarding unreadable stored state", zap.String("key", p.key), zap.Error(err))
		return model.State{}, false
	}

	metrics.IncrementStateLoad("loaded")
	log.Info("Stored state loaded",
		zap.String("key", p.key),
		zap.Int("habits", len(st.Nodes.Items)),
		zap.Int("logs", len(st.HabitLogs.Items)),
	)
	return st, true
}

// LoadOrDefault returns the stored state or a fresh one.
func (p *Persister) LoadOrDefault(ctx context.Context) model.State {
	if st, ok := p.Load(ctx); ok {
		return st
	}
	return model.NewState()
}

func normalize(st model.State) model.State {
	if st.Nodes.Items == nil {
		st.Nodes.Items = []model.Habit{}
	}
	if st.HabitLogs.Items == nil {
		st.HabitLogs.Items = []model.HabitLog{}
	}
	return st
}

// Package store holds the application state as immutable snapshots and runs
// commit hooks after every update.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"habitflow/internal/datekey"
	"habitflow/internal/model"
	"habitflow/pkg/logger"
	"habitflow/pkg/metrics"
)

// Hook runs after each commit with the new snapshot. Writers are held off
// while it runs, so it must not call Update. Errors are logged and never undo
// the commit.
type Hook func(ctx context.Context, st model.State) error

type namedHook struct {
	name string
	fn   Hook
}

// HookTimeout bounds each commit hook.
const HookTimeout = 5 * time.Second

// Store serialises every update: one update function and its hooks run at a
// time, so hooks observe commits in order. Readers only wait for the state
// swap, never for hooks, and may see a commit before it is persisted.
type Store struct {
	writeMu sync.Mutex
	hooks   []namedHook

	mu    sync.RWMutex
	state model.State

	clock  datekey.Clock
	logger *zap.Logger
}

func New(initial model.State, clock datekey.Clock, logger *zap.Logger) *Store {
	if initial.Nodes.Items == nil {
		initial.Nodes.Items = []model.Habit{}
	}
	if initial.HabitLogs.Items == nil {
		initial.HabitLogs.Items = []model.HabitLog{}
	}
	return &Store{state: initial, clock: clock, logger: logger}
}

// OnCommit registers a hook. Hooks run in registration order.
func (s *Store) OnCommit(name string, fn Hook) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.hooks = append(s.hooks, namedHook{name: name, fn: fn})
}

// Snapshot returns the current state. Callers must not modify its slices.
func (s *Store) Snapshot() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Clock is the today provider used for new habits and default ranges.
func (s *Store) Clock() datekey.Clock {
	return s.clock
}

// Update applies fn to the current snapshot. When fn fails nothing is
// committed and no hook runs. Hooks run detached from ctx cancellation, so a
// commit is written through even when the caller has gone away.
func (s *Store) Update(ctx context.Context, fn func(model.State) (model.State, error)) (model.State, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Snapshot()
	next, err := fn(current)
	if err != nil {
		return current, err
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	metrics.IncrementStateCommit()

	log := logger.WithTrace(ctx, s.logger)
	hookCtx := context.WithoutCancel(ctx)
	for _, h := range s.hooks {
		if err := s.runHook(hookCtx, h, next); err != nil {
			log.Warn("Commit hook failed, continuing with in-memory state",
				zap.String("hook", h.name),
				zap.Error(err),
			)
		}
	}
	return next, nil
}

func (s *Store) runHook(ctx context.Context, h namedHook, st model.State) error {
	ctx, cancel := context.WithTimeout(ctx, HookTimeout)
	defer cancel()
	return h.fn(ctx, st)
}

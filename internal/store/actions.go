package store

import (
	"context"
	"errors"
	"fmt"

	"habitflow/internal/datekey"
	"habitflow/internal/logs"
	"habitflow/internal/model"
)

var ErrInvalidRange = errors.New("invalid date range")

// UpsertLog validates p and merges it into the log list.
func (s *Store) UpsertLog(ctx context.Context, p logs.Payload) (model.HabitLog, error) {
	if err := logs.Validate(p); err != nil {
		return model.HabitLog{}, err
	}

	st, err := s.Update(ctx, func(st model.State) (model.State, error) {
		st.HabitLogs.Items = logs.Upsert(st.HabitLogs.Items, p)
		return st, nil
	})
	if err != nil {
		return model.HabitLog{}, err
	}

	id := p.Key()
	for _, l := range st.HabitLogs.Items {
		if l.ID == id {
			return l, nil
		}
	}
	return model.HabitLog{}, fmt.Errorf("log %s missing after upsert", id)
}

// UpsertLogs applies ps in order as a single commit. Nothing is applied when
// any payload is invalid.
func (s *Store) UpsertLogs(ctx context.Context, ps []logs.Payload) ([]model.HabitLog, error) {
	for i, p := range ps {
		if err := logs.Validate(p); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	st, err := s.Update(ctx, func(st model.State) (model.State, error) {
		st.HabitLogs.Items = logs.UpsertBatch(st.HabitLogs.Items, ps)
		return st, nil
	})
	return st.HabitLogs.Items, err
}

// SetSelectedRange stores r, or clears it when r is nil.
func (s *Store) SetSelectedRange(ctx context.Context, r *model.DateRange) error {
	if r != nil && !datekey.Valid(*r) {
		return fmt.Errorf("%w: %s..%s", ErrInvalidRange, r.Start, r.End)
	}
	_, err := s.Update(ctx, func(st model.State) (model.State, error) {
		if r == nil {
			st.HabitLogs.SelectedRange = nil
		} else {
			cp := *r
			st.HabitLogs.SelectedRange = &cp
		}
		return st, nil
	})
	return err
}

// SelectedRangeOrDefault returns the stored range, or the last days days
// ending today.
func (s *Store) SelectedRangeOrDefault(days int) model.DateRange {
	if r := s.Snapshot().HabitLogs.SelectedRange; r != nil {
		return *r
	}
	return datekey.DefaultRange(s.clock, days)
}

func (s *Store) SetUserName(ctx context.Context, name string) (model.SettingsState, error) {
	st, err := s.Update(ctx, func(st model.State) (model.State, error) {
		st.Settings.UserName = name
		return st, nil
	})
	return st.Settings, err
}

// Replace swaps in imported habits and logs. Settings and the selected range
// are kept.
func (s *Store) Replace(ctx context.Context, habits []model.Habit, habitLogs []model.HabitLog) error {
	if habits == nil {
		habits = []model.Habit{}
	}
	if habitLogs == nil {
		habitLogs = []model.HabitLog{}
	}
	_, err := s.Update(ctx, func(st model.State) (model.State, error) {
		st.Nodes.Items = habits
		st.HabitLogs.Items = habitLogs
		return st, nil
	})
	return err
}

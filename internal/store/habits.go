package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"habitflow/internal/datekey"
	"habitflow/internal/logs"
	"habitflow/internal/model"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidHabit  = errors.New("invalid habit")
)

// HabitInput carries the user-editable fields of a habit.
type HabitInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Color       string          `json:"color"`
	Icon        string          `json:"icon"`
	Type        model.HabitType `json:"type"`
	Target      *float64        `json:"target"`
	Unit        string          `json:"unit"`
	Reminders   *bool           `json:"reminders"`
}

const defaultColor = "blue"

func (in HabitInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidHabit)
	}
	switch in.Type {
	case "", model.HabitBinary:
	case model.HabitQuantitative:
		if in.Target == nil || *in.Target <= 0 {
			return fmt.Errorf("%w: quantitative habits need a positive target", ErrInvalidHabit)
		}
		if strings.TrimSpace(in.Unit) == "" {
			return fmt.Errorf("%w: quantitative habits need a unit", ErrInvalidHabit)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidHabit, in.Type)
	}
	return nil
}

// applyTo copies the input onto h. Binary habits drop target and unit.
func (in HabitInput) applyTo(h model.Habit) model.Habit {
	h.Name = strings.TrimSpace(in.Name)
	h.Description = strings.TrimSpace(in.Description)
	h.Tags = cleanTags(in.Tags)
	h.Color = in.Color
	if h.Color == "" {
		h.Color = defaultColor
	}
	h.Icon = in.Icon
	h.Type = in.Type
	if h.Type == "" {
		h.Type = model.HabitBinary
	}
	h.Target, h.Unit = nil, ""
	if h.Type == model.HabitQuantitative {
		h.Target = model.Float(*in.Target)
		h.Unit = strings.TrimSpace(in.Unit)
	}
	h.Reminders = in.Reminders
	return h
}

func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (s *Store) AddHabit(ctx context.Context, in HabitInput) (model.Habit, error) {
	if err := in.validate(); err != nil {
		return model.Habit{}, err
	}

	var created model.Habit
	_, err := s.Update(ctx, func(st model.State) (model.State, error) {
		created = in.applyTo(model.Habit{
			ID:        uuid.NewString(),
			CreatedAt: datekey.TodayKey(s.clock),
			Order:     model.Int(len(st.Nodes.Items)),
			Status:    model.HabitActive,
		})
		items := make([]model.Habit, 0, len(st.Nodes.Items)+1)
		items = append(items, st.Nodes.Items...)
		st.Nodes.Items = append(items, created)
		return st, nil
	})
	return created, err
}

func (s *Store) UpdateHabit(ctx context.Context, id string, in HabitInput) (model.Habit, error) {
	if err := in.validate(); err != nil {
		return model.Habit{}, err
	}

	var updated model.Habit
	_, err := s.Update(ctx, func(st model.State) (model.State, error) {
		return replaceHabit(st, id, func(h model.Habit) model.Habit {
			updated = in.applyTo(h)
			updated.CategoryID = ""
			return updated
		})
	})
	return updated, err
}

func (s *Store) SetHabitStatus(ctx context.Context, id string, status model.HabitStatus) (model.Habit, error) {
	if status != model.HabitActive && status != model.HabitPaused {
		return model.Habit{}, fmt.Errorf("%w: unknown status %q", ErrInvalidHabit, status)
	}

	var updated model.Habit
	_, err := s.Update(ctx, func(st model.State) (model.State, error) {
		return replaceHabit(st, id, func(h model.Habit) model.Habit {
			h.Status = status
			updated = h
			return h
		})
	})
	return updated, err
}

// DeleteHabit removes the habit and every log recorded for it.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	_, err := s.Update(ctx, func(st model.State) (model.State, error) {
		idx := st.FindHabit(id)
		if idx < 0 {
			return st, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		items := make([]model.Habit, 0, len(st.Nodes.Items)-1)
		items = append(items, st.Nodes.Items[:idx]...)
		st.Nodes.Items = append(items, st.Nodes.Items[idx+1:]...)
		st.HabitLogs.Items = logs.RemoveForHabit(st.HabitLogs.Items, id)
		return st, nil
	})
	return err
}

// ReorderHabits puts the listed habits first in the given order; unlisted
// habits follow in their current order. Order fields are renumbered.
func (s *Store) ReorderHabits(ctx context.Context, ids []string) ([]model.Habit, error) {
	st, err := s.Update(ctx, func(st model.State) (model.State, error) {
		placed := make(map[string]bool, len(ids))
		items := make([]model.Habit, 0, len(st.Nodes.Items))
		for _, id := range ids {
			idx := st.FindHabit(id)
			if idx < 0 {
				return st, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
			}
			if placed[id] {
				continue
			}
			placed[id] = true
			items = append(items, st.Nodes.Items[idx])
		}
		for _, h := range st.Nodes.Items {
			if !placed[h.ID] {
				items = append(items, h)
			}
		}
		for i := range items {
			items[i].Order = model.Int(i)
		}
		st.Nodes.Items = items
		return st, nil
	})
	return st.Nodes.Items, err
}

func replaceHabit(st model.State, id string, fn func(model.Habit) model.Habit) (model.State, error) {
	idx := st.FindHabit(id)
	if idx < 0 {
		return st, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	items := make([]model.Habit, len(st.Nodes.Items))
	copy(items, st.Nodes.Items)
	items[idx] = fn(items[idx])
	st.Nodes.Items = items
	return st, nil
}

// ActiveHabits filters out paused habits.
func ActiveHabits(habits []model.Habit) []model.Habit {
	out := make([]model.Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsActive() {
			out = append(out, h)
		}
	}
	return out
}

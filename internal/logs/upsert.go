// Package logs implements create-or-update of habit logs keyed by
// (habitId, date).
package logs

import (
	"errors"
	"fmt"

	"habitflow/internal/datekey"
	"habitflow/internal/model"
)

var ErrInvalidPayload = errors.New("invalid log payload")

// Payload describes one log write. Nil Completed/Value leave the stored field
// untouched.
type Payload struct {
	ID        string   `json:"id,omitempty"`
	HabitID   string   `json:"habitId"`
	Date      string   `json:"date"`
	Completed *bool    `json:"completed,omitempty"`
	Value     *float64 `json:"value,omitempty"`
}

// Key is the primary key the payload resolves to.
func (p Payload) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return model.LogID(p.HabitID, p.Date)
}

// Validate checks the fields a payload must carry before it reaches Upsert.
func Validate(p Payload) error {
	if p.HabitID == "" {
		return fmt.Errorf("%w: habitId is required", ErrInvalidPayload)
	}
	if !datekey.IsValid(p.Date) {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidPayload, p.Date)
	}
	if p.Completed == nil && p.Value == nil {
		return fmt.Errorf("%w: one of completed or value is required", ErrInvalidPayload)
	}
	return nil
}

// Upsert returns a new slice in which the log keyed by p is created or has
// p's fields merged into it. logs is not modified.
func Upsert(logs []model.HabitLog, p Payload) []model.HabitLog {
	out := make([]model.HabitLog, len(logs), len(logs)+1)
	copy(out, logs)
	return apply(out, p)
}

// UpsertBatch applies payloads in order, so a later payload for the same key
// overrides an earlier one.
func UpsertBatch(logs []model.HabitLog, payloads []Payload) []model.HabitLog {
	out := make([]model.HabitLog, len(logs), len(logs)+len(payloads))
	copy(out, logs)
	for _, p := range payloads {
		out = apply(out, p)
	}
	return out
}

// apply mutates out, which must already be a private copy.
func apply(out []model.HabitLog, p Payload) []model.HabitLog {
	id := p.Key()
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if p.Completed != nil {
			out[i].Completed = model.Bool(*p.Completed)
		}
		if p.Value != nil {
			out[i].Value = model.Float(*p.Value)
		}
		return out
	}

	l := model.HabitLog{ID: id, HabitID: p.HabitID, Date: p.Date}
	if p.Completed != nil {
		l.Completed = model.Bool(*p.Completed)
	}
	if p.Value != nil {
		l.Value = model.Float(*p.Value)
	}
	return append(out, l)
}

// RemoveForHabit returns logs without any entry for habitID.
func RemoveForHabit(logs []model.HabitLog, habitID string) []model.HabitLog {
	out := make([]model.HabitLog, 0, len(logs))
	for _, l := range logs {
		if l.HabitID != habitID {
			out = append(out, l)
		}
	}
	return out
}

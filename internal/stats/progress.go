// Package stats aggregates habit logs over a date range.
package stats

import (
	"math"

	"habitflow/internal/datekey"
	"habitflow/internal/model"
)

// HabitSummary is one habit's planned/completed units over a range.
type HabitSummary struct {
	Habit     model.Habit `json:"habit"`
	Planned   float64     `json:"planned"`
	Completed float64     `json:"completed"`
	Percent   int         `json:"percent"`
}

type RangeProgress struct {
	TotalCompleted float64       `json:"totalCompleted"`
	TotalPlanned   float64       `json:"totalPlanned"`
	Percent        int           `json:"percent"`
	BestHabit      *HabitSummary `json:"bestHabit,omitempty"`
	WorstHabit     *HabitSummary `json:"worstHabit,omitempty"`
}

type logKey struct {
	habitID string
	date    string
}

// logIndex maps (habitId, date) to its log. Later duplicates win.
type logIndex map[logKey]model.HabitLog

func indexLogs(logs []model.HabitLog) logIndex {
	idx := make(logIndex, len(logs))
	for _, l := range logs {
		idx[logKey{l.HabitID, l.Date}] = l
	}
	return idx
}

func (idx logIndex) get(habitID, date string) (model.HabitLog, bool) {
	l, ok := idx[logKey{habitID, date}]
	return l, ok
}

// dayUnits returns the planned and completed units of habit h on one day.
// Quantitative values are clamped to [0, target]; a habit without a positive
// target contributes nothing.
func dayUnits(h model.Habit, log model.HabitLog, hasLog bool) (planned, completed float64) {
	if h.IsQuantitative() {
		target := h.TargetValue()
		if target <= 0 {
			return 0, 0
		}
		if !hasLog {
			return target, 0
		}
		return target, math.Min(target, math.Max(0, log.ValueOrZero()))
	}
	if hasLog && log.IsCompleted() {
		return 1, 1
	}
	return 1, 0
}

// Percent rounds 100*completed/planned half away from zero (math.Round), so
// 72.5 becomes 73. It returns 0 when nothing was planned.
func Percent(completed, planned float64) int {
	if planned <= 0 {
		return 0
	}
	return int(math.Round(100 * completed / planned))
}

// HabitSummaries returns one summary per habit in input order. It returns an
// empty slice for an invalid range.
func HabitSummaries(habits []model.Habit, logs []model.HabitLog, r model.DateRange) []HabitSummary {
	keys := datekey.Keys(r)
	if len(habits) == 0 || len(keys) == 0 {
		return []HabitSummary{}
	}

	idx := indexLogs(logs)
	out := make([]HabitSummary, 0, len(habits))
	for _, h := range habits {
		s := HabitSummary{Habit: h}
		for _, key := range keys {
			log, ok := idx.get(h.ID, key)
			p, c := dayUnits(h, log, ok)
			s.Planned += p
			s.Completed += c
		}
		s.Percent = Percent(s.Completed, s.Planned)
		out = append(out, s)
	}
	return out
}

// CalculateRangeProgress totals planned and completed units for every habit
// and day of r and picks the best and worst performing habits. Ties go to the
// habit that comes first in habits.
func CalculateRangeProgress(habits []model.Habit, logs []model.HabitLog, r model.DateRange) RangeProgress {
	summaries := HabitSummaries(habits, logs, r)
	if len(summaries) == 0 {
		return RangeProgress{}
	}

	var res RangeProgress
	best, worst := 0, 0
	for i, s := range summaries {
		res.TotalPlanned += s.Planned
		res.TotalCompleted += s.Completed
		if s.Percent > summaries[best].Percent {
			best = i
		}
		if s.Percent < summaries[worst].Percent {
			worst = i
		}
	}
	res.Percent = Percent(res.TotalCompleted, res.TotalPlanned)
	res.BestHabit = &summaries[best]
	res.WorstHabit = &summaries[worst]
	return res
}

// Package selector derives streaks and completion sets from the full log
// history.
package selector

import (
	"slices"

	"habitflow/internal/datekey"
	"habitflow/internal/model"
)

// DaySet is a set of date keys.
type DaySet map[string]struct{}

func (s DaySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in ascending order.
func (s DaySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// loggedEffort is the loose predicate: a completed flag or any positive value.
func loggedEffort(l model.HabitLog) bool {
	return l.IsCompleted() || l.ValueOrZero() > 0
}

// metTarget is the strict predicate. Quantitative habits without a target
// need a value of at least 1.
func metTarget(h model.Habit, l model.HabitLog) bool {
	if h.IsQuantitative() {
		target := 1.0
		if h.Target != nil {
			target = *h.Target
		}
		return l.Value != nil && *l.Value >= target
	}
	return l.IsCompleted()
}

// CompletedDays returns every date on which at least one log shows effort.
func CompletedDays(logs []model.HabitLog) DaySet {
	days := DaySet{}
	for _, l := range logs {
		if loggedEffort(l) {
			days[l.Date] = struct{}{}
		}
	}
	return days
}

// PerfectDays returns the dates on which every habit in habits met its
// target. With no habits no day is perfect.
func PerfectDays(habits []model.Habit, logs []model.HabitLog) DaySet {
	days := DaySet{}
	if len(habits) == 0 {
		return days
	}

	byDate := make(map[string]map[string]model.HabitLog)
	for _, l := range logs {
		m, ok := byDate[l.Date]
		if !ok {
			m = make(map[string]model.HabitLog)
			byDate[l.Date] = m
		}
		m[l.HabitID] = l
	}

	for date, m := range byDate {
		perfect := true
		for _, h := range habits {
			l, ok := m[h.ID]
			if !ok || !metTarget(h, l) {
				perfect = false
				break
			}
		}
		if perfect {
			days[date] = struct{}{}
		}
	}
	return days
}

// CurrentStreak counts consecutive members of days ending at today. It is 0
// when today is not in days.
func CurrentStreak(days DaySet, today string) int {
	streak := 0
	for key := today; key != "" && days.Has(key); key = datekey.AddDays(key, -1) {
		streak++
	}
	return streak
}

// MaxStreak is the longest run of consecutive calendar days in days. Gaps are
// found by date arithmetic on the sorted keys.
func MaxStreak(days DaySet) int {
	longest, run := 0, 0
	prev := ""
	for _, key := range days.Sorted() {
		if _, ok := datekey.Parse(key); !ok {
			continue
		}
		if prev != "" && datekey.AddDays(prev, 1) == key {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		prev = key
	}
	return longest
}

// HabitDays returns the dates on which habit h met its target.
func HabitDays(h model.Habit, logs []model.HabitLog) DaySet {
	days := DaySet{}
	for _, l := range logs {
		if l.HabitID == h.ID && metTarget(h, l) {
			days[l.Date] = struct{}{}
		}
	}
	return days
}

// HabitStreak is the current streak of habit h under its own target rule.
func HabitStreak(h model.Habit, logs []model.HabitLog, today string) int {
	return CurrentStreak(HabitDays(h, logs), today)
}

// HabitMaxStreak is the longest run of habit h under its own target rule.
func HabitMaxStreak(h model.Habit, logs []model.HabitLog) int {
	return MaxStreak(HabitDays(h, logs))
}

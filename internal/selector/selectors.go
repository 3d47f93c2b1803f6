package selector

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"habitflow/internal/datekey"
	"habitflow/internal/model"
	"habitflow/pkg/metrics"
)

// HabitStreakInfo is the streak pair of a single habit.
type HabitStreakInfo struct {
	HabitID string `json:"habitId"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// Summary bundles every derived value for one (habits, logs, today) input.
// A Summary returned by Selectors must be treated as read-only.
type Summary struct {
	Today         string            `json:"today"`
	CompletedDays DaySet            `json:"-"`
	PerfectDays   DaySet            `json:"-"`
	CurrentStreak int               `json:"currentStreak"`
	MaxStreak     int               `json:"maxStreak"`
	Habits        []HabitStreakInfo `json:"habits"`
}

// Selectors memoizes Summary by a content fingerprint of its inputs.
//
// Stability contract: as long as the habits, logs and today's key are
// unchanged, Summarize returns the identical *Summary (same pointer, same set
// maps) without recomputing anything. Only the most recent input is cached.
type Selectors struct {
	clock  datekey.Clock
	logger *zap.Logger

	mu     sync.Mutex
	key    uint64
	today  string
	cached *Summary
}

func NewSelectors(clock datekey.Clock, logger *zap.Logger) *Selectors {
	return &Selectors{clock: clock, logger: logger}
}

// Summarize returns the derived values for habits and logs as of today.
func (s *Selectors) Summarize(habits []model.Habit, logs []model.HabitLog) *Summary {
	today := datekey.TodayKey(s.clock)
	key := Fingerprint(habits, logs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.key == key && s.today == today {
		metrics.IncrementSelectorCache("hit")
		return s.cached
	}
	metrics.IncrementSelectorCache("miss")

	sum := compute(habits, logs, today)
	s.key, s.today, s.cached = key, today, sum

	s.logger.Debug("Recomputed streak summary",
		zap.String("today", today),
		zap.Int("habits", len(habits)),
		zap.Int("logs", len(logs)),
		zap.Int("current_streak", sum.CurrentStreak),
	)
	return sum
}

func compute(habits []model.Habit, logs []model.HabitLog, today string) *Summary {
	completed := CompletedDays(logs)
	sum := &Summary{
		Today:         today,
		CompletedDays: completed,
		PerfectDays:   PerfectDays(habits, logs),
		CurrentStreak: CurrentStreak(completed, today),
		MaxStreak:     MaxStreak(completed),
		Habits:        make([]HabitStreakInfo, 0, len(habits)),
	}
	for _, h := range habits {
		days := HabitDays(h, logs)
		sum.Habits = append(sum.Habits, HabitStreakInfo{
			HabitID: h.ID,
			Current: CurrentStreak(days, today),
			Longest: MaxStreak(days),
		})
	}
	return sum
}

// Fingerprint hashes every field the selectors read, in order.
func Fingerprint(habits []model.Habit, logs []model.HabitLog) uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeStr := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	writeFloat := func(f *float64) {
		if f == nil {
			_, _ = d.Write([]byte{0})
			return
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(*f))
		_, _ = d.Write([]byte{1})
		_, _ = d.Write(buf[:])
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(habits)))
	_, _ = d.Write(buf[:])
	for _, h := range habits {
		writeStr(h.ID)
		writeStr(string(h.Type))
		writeFloat(h.Target)
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(logs)))
	_, _ = d.Write(buf[:])
	for _, l := range logs {
		writeStr(l.HabitID)
		writeStr(l.Date)
		switch {
		case l.Completed == nil:
			_, _ = d.Write([]byte{0})
		case *l.Completed:
			_, _ = d.Write([]byte{1})
		default:
			_, _ = d.Write([]byte{2})
		}
		writeFloat(l.Value)
	}
	return d.Sum64()
}

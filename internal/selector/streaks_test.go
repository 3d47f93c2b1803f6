package selector

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"habitflow/internal/datekey"
	"habitflow/internal/model"
)

func daySet(keys ...string) DaySet {
	s := DaySet{}
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func perfectFixture() ([]model.Habit, []model.HabitLog) {
	habits := []model.Habit{
		{ID: "bin", Type: model.HabitBinary},
		{ID: "qty", Type: model.HabitQuantitative, Target: model.Float(10), Unit: "pages"},
	}
	logs := []model.HabitLog{
		{ID: "bin-2026-02-20", HabitID: "bin", Date: "2026-02-20", Completed: model.Bool(true)},
		{ID: "qty-2026-02-20", HabitID: "qty", Date: "2026-02-20", Value: model.Float(10)},
	}
	return habits, logs
}

func TestPerfectDaysExample(t *testing.T) {
	habits, logs := perfectFixture()

	perfect := PerfectDays(habits, logs)
	if !perfect.Has("2026-02-20") {
		t.Fatalf("expected 2026-02-20 to be perfect, got %v", perfect.Sorted())
	}

	perfect = PerfectDays(habits, logs[:1])
	if perfect.Has("2026-02-20") {
		t.Error("expected 2026-02-20 to drop out without the quantitative log")
	}
}

func TestPerfectDaysStrictTarget(t *testing.T) {
	habits := []model.Habit{
		{ID: "qty", Type: model.HabitQuantitative, Target: model.Float(10)},
		{ID: "untargeted", Type: model.HabitQuantitative},
	}
	logs := []model.HabitLog{
		{HabitID: "qty", Date: "2026-02-20", Value: model.Float(9)},
		{HabitID: "untargeted", Date: "2026-02-20", Value: model.Float(1)},
		{HabitID: "qty", Date: "2026-02-21", Value: model.Float(12)},
		{HabitID: "untargeted", Date: "2026-02-21", Value: model.Float(0.5)},
		{HabitID: "qty", Date: "2026-02-22", Value: model.Float(10)},
		{HabitID: "untargeted", Date: "2026-02-22", Value: model.Float(1)},
	}
	got := PerfectDays(habits, logs).Sorted()
	if len(got) != 1 || got[0] != "2026-02-22" {
		t.Errorf("expected only 2026-02-22, got %v", got)
	}
}

func TestPerfectDaysNoHabits(t *testing.T) {
	_, logs := perfectFixture()
	if got := PerfectDays(nil, logs); len(got) != 0 {
		t.Errorf("expected no perfect days, got %v", got.Sorted())
	}
}

func TestCompletedDaysLooseBar(t *testing.T) {
	logs := []model.HabitLog{
		{HabitID: "qty", Date: "2026-02-20", Value: model.Float(0.1)},
		{HabitID: "qty", Date: "2026-02-21", Value: model.Float(0)},
		{HabitID: "bin", Date: "2026-02-22", Completed: model.Bool(false)},
		{HabitID: "bin", Date: "2026-02-23", Completed: model.Bool(true)},
	}
	got := CompletedDays(logs).Sorted()
	if len(got) != 2 || got[0] != "2026-02-20" || got[1] != "2026-02-23" {
		t.Errorf("unexpected completed days %v", got)
	}
}

func TestPerfectDaysSubsetOfCompletedDays(t *testing.T) {
	habits := []model.Habit{
		{ID: "a", Type: model.HabitBinary},
		{ID: "b", Type: model.HabitQuantitative, Target: model.Float(3)},
	}
	var logs []model.HabitLog
	for i, d := range datekey.Keys(model.DateRange{Start: "2026-01-01", End: "2026-01-31"}) {
		logs = append(logs,
			model.HabitLog{HabitID: "a", Date: d, Completed: model.Bool(i%3 != 0)},
			model.HabitLog{HabitID: "b", Date: d, Value: model.Float(float64(i % 5))},
		)
	}

	completed := CompletedDays(logs)
	perfect := PerfectDays(habits, logs)
	if len(perfect) == 0 {
		t.Fatal("fixture should produce perfect days")
	}
	for d := range perfect {
		if !completed.Has(d) {
			t.Errorf("perfect day %s missing from completed days", d)
		}
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		days  DaySet
		today string
		want  int
	}{
		{"empty", daySet(), "2026-02-20", 0},
		{"today missing", daySet("2026-02-18", "2026-02-19"), "2026-02-20", 0},
		{"today only", daySet("2026-02-20"), "2026-02-20", 1},
		{"run into today", daySet("2026-02-17", "2026-02-18", "2026-02-19", "2026-02-20"), "2026-02-20", 4},
		{"gap stops walk", daySet("2026-02-16", "2026-02-18", "2026-02-19", "2026-02-20"), "2026-02-20", 3},
		{"across month", daySet("2026-02-28", "2026-03-01"), "2026-03-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.days, tt.today); got != tt.want {
				t.Errorf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMaxStreak(t *testing.T) {
	tests := []struct {
		name string
		days DaySet
		want int
	}{
		{"empty", daySet(), 0},
		{"single", daySet("2026-02-20"), 1},
		{"two runs", daySet("2026-01-01", "2026-01-02", "2026-01-05", "2026-01-06", "2026-01-07"), 3},
		{"year boundary", daySet("2025-12-31", "2026-01-01"), 2},
		{"leap day", daySet("2024-02-28", "2024-02-29", "2024-03-01"), 3},
		{"non leap gap", daySet("2025-02-28", "2025-03-02"), 1},
		{"garbage ignored", daySet("2026-01-01", "nope", "2026-01-02"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxStreak(tt.days); got != tt.want {
				t.Errorf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHabitStreak(t *testing.T) {
	h := model.Habit{ID: "qty", Type: model.HabitQuantitative, Target: model.Float(5)}
	logs := []model.HabitLog{
		{HabitID: "qty", Date: "2026-02-17", Value: model.Float(5)},
		{HabitID: "qty", Date: "2026-02-18", Value: model.Float(2)},
		{HabitID: "qty", Date: "2026-02-19", Value: model.Float(6)},
		{HabitID: "qty", Date: "2026-02-20", Value: model.Float(5)},
		{HabitID: "other", Date: "2026-02-18", Value: model.Float(50)},
	}
	if got := HabitStreak(h, logs, "2026-02-20"); got != 2 {
		t.Errorf("expected streak 2, got %d", got)
	}
	if got := HabitMaxStreak(h, logs); got != 2 {
		t.Errorf("expected max streak 2, got %d", got)
	}
}

func TestSelectorsIdentityStable(t *testing.T) {
	habits, logs := perfectFixture()
	sel := NewSelectors(datekey.FixedClockAt("2026-02-20"), zap.NewNop())

	first := sel.Summarize(habits, logs)
	second := sel.Summarize(habits, logs)
	if first != second {
		t.Fatal("expected identical summary pointer for unchanged input")
	}

	copied := append([]model.HabitLog(nil), logs...)
	if sel.Summarize(habits, copied) != first {
		t.Error("expected content-equal input to reuse the cached summary")
	}

	if first.CurrentStreak != 1 || first.MaxStreak != 1 || !first.PerfectDays.Has("2026-02-20") {
		t.Errorf("unexpected summary %+v", first)
	}
	if len(first.Habits) != 2 || first.Habits[1].Current != 1 {
		t.Errorf("unexpected habit streaks %+v", first.Habits)
	}

	changed := append(copied, model.HabitLog{HabitID: "bin", Date: "2026-02-19", Completed: model.Bool(true)})
	third := sel.Summarize(habits, changed)
	if third == first {
		t.Fatal("expected a new summary after logs changed")
	}
	if third.CurrentStreak != 2 {
		t.Errorf("expected streak 2, got %d", third.CurrentStreak)
	}
}

func TestSelectorsRecomputeOnNewDay(t *testing.T) {
	habits, logs := perfectFixture()
	clock := &movingClock{day: "2026-02-20"}
	sel := NewSelectors(clock, zap.NewNop())

	first := sel.Summarize(habits, logs)
	clock.day = "2026-02-21"
	second := sel.Summarize(habits, logs)
	if first == second {
		t.Fatal("expected recomputation after the day changed")
	}
	if second.CurrentStreak != 0 {
		t.Errorf("expected streak 0 on the next day, got %d", second.CurrentStreak)
	}
}

func TestFingerprintDistinguishesFlags(t *testing.T) {
	a := []model.HabitLog{{HabitID: "h", Date: "2026-02-20", Completed: model.Bool(true)}}
	b := []model.HabitLog{{HabitID: "h", Date: "2026-02-20", Completed: model.Bool(false)}}
	c := []model.HabitLog{{HabitID: "h", Date: "2026-02-20"}}
	if Fingerprint(nil, a) == Fingerprint(nil, b) || Fingerprint(nil, b) == Fingerprint(nil, c) {
		t.Error("expected distinct fingerprints for different completed flags")
	}
}

type movingClock struct {
	day string
}

func (c *movingClock) Today() time.Time {
	t, _ := datekey.Parse(c.day)
	return t
}

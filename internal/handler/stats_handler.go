package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/selector"
	"habitflow/internal/stats"
	"habitflow/internal/store"
)

// StatsHandler serves aggregates over active habits. Paused habits keep their
// logs but drop out of planned totals and perfect days.
type StatsHandler struct {
	store       *store.Store
	selectors   *selector.Selectors
	defaultDays int
	logger      *zap.Logger
}

func NewStatsHandler(s *store.Store, selectors *selector.Selectors, defaultDays int, logger *zap.Logger) *StatsHandler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &StatsHandler{store: s, selectors: selectors, defaultDays: defaultDays, logger: logger}
}

func (h *StatsHandler) fallbackRange() model.DateRange {
	return h.store.SelectedRangeOrDefault(h.defaultDays)
}

func (h *StatsHandler) inputs(c *gin.Context, op string) ([]model.Habit, []model.HabitLog, model.DateRange, bool) {
	r, err := queryRange(c, h.fallbackRange)
	if err != nil {
		respondError(c, h.logger, op, err)
		return nil, nil, model.DateRange{}, false
	}
	st := h.store.Snapshot()
	return store.ActiveHabits(st.Nodes.Items), st.HabitLogs.Items, r, true
}

func (h *StatsHandler) Progress(c *gin.Context) {
	habits, logs, r, ok := h.inputs(c, "Progress")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"range":    r,
		"progress": stats.CalculateRangeProgress(habits, logs, r),
	})
}

func (h *StatsHandler) Days(c *gin.Context) {
	habits, logs, r, ok := h.inputs(c, "Days")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"range": r,
		"days":  stats.GroupByDay(habits, logs, r),
	})
}

func (h *StatsHandler) Habits(c *gin.Context) {
	habits, logs, r, ok := h.inputs(c, "Habits")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"range":  r,
		"habits": stats.HabitSummaries(habits, logs, r),
	})
}

func (h *StatsHandler) Streaks(c *gin.Context) {
	st := h.store.Snapshot()
	sum := h.selectors.Summarize(store.ActiveHabits(st.Nodes.Items), st.HabitLogs.Items)
	c.JSON(http.StatusOK, gin.H{
		"streaks":       sum,
		"completedDays": sum.CompletedDays.Sorted(),
		"perfectDays":   sum.PerfectDays.Sorted(),
	})
}

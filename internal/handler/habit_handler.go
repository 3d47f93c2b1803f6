package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/store"
	"habitflow/pkg/logger"
)

type HabitHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewHabitHandler(s *store.Store, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{store: s, logger: logger}
}

// ListHabits returns every habit; ?status=active|paused filters.
func (h *HabitHandler) ListHabits(c *gin.Context) {
	habits := h.store.Snapshot().Nodes.Items
	switch status := model.HabitStatus(c.Query("status")); status {
	case "":
	case model.HabitActive:
		habits = store.ActiveHabits(habits)
	case model.HabitPaused:
		paused := make([]model.Habit, 0, len(habits))
		for _, hb := range habits {
			if !hb.IsActive() {
				paused = append(paused, hb)
			}
		}
		habits = paused
	default:
		respondError(c, h.logger, "ListHabits", badRequest("unknown status %q", status))
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var in store.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger, "CreateHabit", badRequest("invalid body: %v", err))
		return
	}

	habit, err := h.store.AddHabit(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "CreateHabit", err)
		return
	}

	logger.WithTrace(c.Request.Context(), h.logger).Info("CreateHabit: success",
		zap.String("habit_id", habit.ID),
		zap.String("type", string(habit.Type)),
	)
	c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	id := c.Param("id")
	var in store.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger, "UpdateHabit", badRequest("invalid body: %v", err))
		return
	}

	habit, err := h.store.UpdateHabit(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "UpdateHabit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteHabit(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteHabit", err)
		return
	}

	logger.WithTrace(c.Request.Context(), h.logger).Info("DeleteHabit: success", zap.String("habit_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type statusRequest struct {
	Status model.HabitStatus `json:"status"`
}

func (h *HabitHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "SetStatus", badRequest("invalid body: %v", err))
		return
	}

	habit, err := h.store.SetHabitStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, "SetStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (h *HabitHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "Reorder", badRequest("invalid body: %v", err))
		return
	}

	habits, err := h.store.ReorderHabits(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.logger, "Reorder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

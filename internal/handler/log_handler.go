package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/logs"
	"habitflow/internal/model"
	"habitflow/internal/store"
	"habitflow/pkg/logger"
)

type LogHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewLogHandler(s *store.Store, logger *zap.Logger) *LogHandler {
	return &LogHandler{store: s, logger: logger}
}

// ListLogs returns logs, optionally filtered by ?habitId= and ?start=&end=.
func (h *LogHandler) ListLogs(c *gin.Context) {
	items := h.store.Snapshot().HabitLogs.Items
	habitID := c.Query("habitId")

	var r *model.DateRange
	if c.Query("start") != "" || c.Query("end") != "" {
		parsed, err := queryRange(c, nil)
		if err != nil {
			respondError(c, h.logger, "ListLogs", err)
			return
		}
		r = &parsed
	}

	out := make([]model.HabitLog, 0, len(items))
	for _, l := range items {
		if habitID != "" && l.HabitID != habitID {
			continue
		}
		if r != nil && (l.Date < r.Start || l.Date > r.End) {
			continue
		}
		out = append(out, l)
	}
	c.JSON(http.StatusOK, gin.H{"logs": out})
}

func (h *LogHandler) UpsertLog(c *gin.Context) {
	var p logs.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, h.logger, "UpsertLog", badRequest("invalid body: %v", err))
		return
	}

	l, err := h.store.UpsertLog(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, "UpsertLog", err)
		return
	}

	logger.WithTrace(c.Request.Context(), h.logger).Debug("UpsertLog: success",
		zap.String("log_id", l.ID),
		zap.String("habit_id", l.HabitID),
		zap.String("date", l.Date),
	)
	c.JSON(http.StatusOK, gin.H{"log": l})
}

type batchRequest struct {
	Logs []logs.Payload `json:"logs"`
}

func (h *LogHandler) UpsertLogs(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "UpsertLogs", badRequest("invalid body: %v", err))
		return
	}

	items, err := h.store.UpsertLogs(c.Request.Context(), req.Logs)
	if err != nil {
		respondError(c, h.logger, "UpsertLogs", err)
		return
	}

	logger.WithTrace(c.Request.Context(), h.logger).Info("UpsertLogs: success",
		zap.Int("payloads", len(req.Logs)),
		zap.Int("log_count", len(items)),
	)
	c.JSON(http.StatusOK, gin.H{"logs": items})
}

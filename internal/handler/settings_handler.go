package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/store"
)

type SettingsHandler struct {
	store       *store.Store
	defaultDays int
	logger      *zap.Logger
}

func NewSettingsHandler(s *store.Store, defaultDays int, logger *zap.Logger) *SettingsHandler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &SettingsHandler{store: s, defaultDays: defaultDays, logger: logger}
}

// GetRange reports the stored range and the range stats fall back to.
func (h *SettingsHandler) GetRange(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"selectedRange": h.store.Snapshot().HabitLogs.SelectedRange,
		"effective":     h.store.SelectedRangeOrDefault(h.defaultDays),
	})
}

func (h *SettingsHandler) PutRange(c *gin.Context) {
	var r model.DateRange
	if err := c.ShouldBindJSON(&r); err != nil {
		respondError(c, h.logger, "PutRange", badRequest("invalid body: %v", err))
		return
	}
	if err := h.store.SetSelectedRange(c.Request.Context(), &r); err != nil {
		respondError(c, h.logger, "PutRange", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedRange": r})
}

func (h *SettingsHandler) ClearRange(c *gin.Context) {
	if err := h.store.SetSelectedRange(c.Request.Context(), nil); err != nil {
		respondError(c, h.logger, "ClearRange", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.store.Snapshot().Settings})
}

func (h *SettingsHandler) PutSettings(c *gin.Context) {
	var req model.SettingsState
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "PutSettings", badRequest("invalid body: %v", err))
		return
	}
	settings, err := h.store.SetUserName(c.Request.Context(), req.UserName)
	if err != nil {
		respondError(c, h.logger, "PutSettings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

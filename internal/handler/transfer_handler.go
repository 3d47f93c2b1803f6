package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/store"
	"habitflow/internal/transfer"
	"habitflow/pkg/logger"
)

var maxImportBytes int64 = 10 << 20

type TransferHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewTransferHandler(s *store.Store, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{store: s, logger: logger}
}

func (h *TransferHandler) Export(c *gin.Context) {
	doc := transfer.Build(h.store.Snapshot())
	c.Header("Content-Disposition", `attachment; filename="habits-export.json"`)
	c.JSON(http.StatusOK, doc)
}

// Import replaces habits and logs with the uploaded document. Nothing changes
// unless the whole document parses.
func (h *TransferHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(c, h.logger, "Import", fmt.Errorf("%w: limit is %d bytes", errTooLarge, tooLarge.Limit))
		return
	case err != nil:
		respondError(c, h.logger, "Import", badRequest("read body: %v", err))
		return
	}

	doc, err := transfer.Parse(data)
	if err != nil {
		respondError(c, h.logger, "Import", err)
		return
	}
	if err := h.store.Replace(c.Request.Context(), doc.Habits.Items, doc.HabitLogs.Items); err != nil {
		respondError(c, h.logger, "Import", err)
		return
	}

	logger.WithTrace(c.Request.Context(), h.logger).Info("Import: success",
		zap.Int("habit_count", len(doc.Habits.Items)),
		zap.Int("log_count", len(doc.HabitLogs.Items)),
	)
	c.JSON(http.StatusOK, gin.H{
		"habits": len(doc.Habits.Items),
		"logs":   len(doc.HabitLogs.Items),
	})
}

// Package handler exposes the store and the derived statistics over HTTP.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/datekey"
	"habitflow/internal/logs"
	"habitflow/internal/model"
	"habitflow/internal/store"
	"habitflow/internal/transfer"
	"habitflow/pkg/logger"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrHabitNotFound):
		return http.StatusNotFound
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrInvalidHabit),
		errors.Is(err, store.ErrInvalidRange),
		errors.Is(err, logs.ErrInvalidPayload),
		errors.Is(err, transfer.ErrInvalidDocument),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var (
	errBadRequest = errors.New("bad request")
	errTooLarge   = errors.New("file too large")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// respondError logs err under op and writes {"error": ...}. Internal errors
// are not echoed to the client.
func respondError(c *gin.Context, l *zap.Logger, op string, err error) {
	status := statusFor(err)
	log := logger.WithTrace(c.Request.Context(), l)
	if status == http.StatusInternalServerError {
		log.Error(op+": failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	log.Warn(op+": rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

// queryRange reads ?start=&end=. Both absent means fallback; a range whose end
// precedes its start is passed through and yields empty results.
func queryRange(c *gin.Context, fallback func() model.DateRange) (model.DateRange, error) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" && end == "" {
		return fallback(), nil
	}
	if _, ok := datekey.Parse(start); !ok {
		return model.DateRange{}, badRequest("start %q is not a valid date", start)
	}
	if _, ok := datekey.Parse(end); !ok {
		return model.DateRange{}, badRequest("end %q is not a valid date", end)
	}
	return model.DateRange{Start: start, End: end}, nil
}

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habitflow/internal/handler"
)

// Pinger is the readiness probe of the storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Broker reports whether the event publisher is usable. Nil when events are
// disabled.
type Broker interface {
	IsConnected() bool
}

type Handlers struct {
	Habits   *handler.HabitHandler
	Logs     *handler.LogHandler
	Stats    *handler.StatsHandler
	Settings *handler.SettingsHandler
	Transfer *handler.TransferHandler
}

func NewRouter(h Handlers, logger *zap.Logger, storage Pinger, broker Broker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), RequestLogger(logger), MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "storage_not_ready", "error": err.Error()})
			return
		}
		if broker != nil && !broker.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "mq_not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	habits := r.Group("/habits")
	{
		habits.GET("", h.Habits.ListHabits)
		habits.POST("", h.Habits.CreateHabit)
		habits.POST("/reorder", h.Habits.Reorder)
		habits.PUT("/:id", h.Habits.UpdateHabit)
		habits.DELETE("/:id", h.Habits.DeleteHabit)
		habits.POST("/:id/status", h.Habits.SetStatus)
	}

	logs := r.Group("/logs")
	{
		logs.GET("", h.Logs.ListLogs)
		logs.POST("", h.Logs.UpsertLog)
		logs.POST("/batch", h.Logs.UpsertLogs)
	}

	stats := r.Group("/stats")
	{
		stats.GET("/progress", h.Stats.Progress)
		stats.GET("/days", h.Stats.Days)
		stats.GET("/habits", h.Stats.Habits)
		stats.GET("/streaks", h.Stats.Streaks)
	}

	r.GET("/range", h.Settings.GetRange)
	r.PUT("/range", h.Settings.PutRange)
	r.DELETE("/range", h.Settings.ClearRange)
	r.GET("/settings", h.Settings.GetSettings)
	r.PUT("/settings", h.Settings.PutSettings)

	r.GET("/export", h.Transfer.Export)
	r.POST("/import", h.Transfer.Import)

	return r
}

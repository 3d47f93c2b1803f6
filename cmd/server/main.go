package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"habitflow/config"
	"habitflow/internal/datekey"
	"habitflow/internal/events"
	"habitflow/internal/handler"
	"habitflow/internal/httpserver"
	"habitflow/internal/kvstore"
	"habitflow/internal/persist"
	"habitflow/internal/selector"
	"habitflow/internal/store"
	"habitflow/pkg/circuitbreaker"
	pkgconfig "habitflow/pkg/config"
	"habitflow/pkg/logger"
	"habitflow/pkg/mq"
)

func main() {
	env := pkgconfig.GetConfigEnv()
	cfg, err := config.Load(env, pkgconfig.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	log.Info("Starting habitflow...",
		zap.String("env", env),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("events_enabled", cfg.MQ.URL != ""),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	kv, kvCloser, err := kvstore.Open(ctx, cfg.Storage, cfg.Redis, cfg.DB, log)
	if err != nil {
		cancel()
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer kvCloser.Close()

	persister := persist.NewPersister(kv, cfg.Storage.Key, log)
	initial := persister.LoadOrDefault(ctx)
	cancel()

	clock := datekey.SystemClock{}
	st := store.New(initial, clock, log)
	st.OnCommit("persist", persister.Save)
	log.Info("State loaded",
		zap.Int("habit_count", len(initial.Nodes.Items)),
		zap.Int("log_count", len(initial.HabitLogs.Items)),
	)

	var broker httpserver.Broker
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ)
		if err != nil {
			log.Fatal("Failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()

		notifier := events.NewCommitNotifier(publisher, circuitbreaker.New(circuitbreaker.DefaultConfig()), log)
		st.OnCommit("events", notifier.Hook)
		broker = publisher
		log.Info("Event publisher connected", zap.String("exchange", publisher.Exchange()))
	}

	handlers := httpserver.Handlers{
		Habits:   handler.NewHabitHandler(st, log),
		Logs:     handler.NewLogHandler(st, log),
		Stats:    handler.NewStatsHandler(st, selector.NewSelectors(clock, log), cfg.Stats.DefaultRangeDays, log),
		Settings: handler.NewSettingsHandler(st, cfg.Stats.DefaultRangeDays, log),
		Transfer: handler.NewTransferHandler(st, log),
	}
	router := httpserver.NewRouter(handlers, log, kv, broker)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down habitflow gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("habitflow shutdown complete")
}

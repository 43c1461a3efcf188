package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benx421/retail-ledger/internal/config"
	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/handlers"
	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/notify"
	"github.com/benx421/retail-ledger/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ledger exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting ledger api",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	events, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("failed to close notifier", "error", err)
		}
	}()

	app, err := handlers.NewApp(database, cfg, events, logger)
	if err != nil {
		return err
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(app.Repayments, cfg.Scheduler.RepaymentSchedule, logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer func() { <-sched.Stop().Done() }()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

// eventNotifier publishes posted transactions and releases its resources on Close
type eventNotifier interface {
	Notify(ctx context.Context, txn *models.Transaction) error
	Close() error
}

// newNotifier selects the RabbitMQ publisher when a broker URL is configured
// and the log notifier otherwise.
func newNotifier(cfg *config.Config, logger *slog.Logger) (eventNotifier, error) {
	if cfg.Notifier.RabbitMQURL == "" {
		logger.Info("no message broker configured, transaction events go to the log")
		return notify.NewLogNotifier(logger), nil
	}

	return notify.NewRabbitMQNotifier(
		cfg.Notifier.RabbitMQURL,
		cfg.Notifier.Exchange,
		cfg.Notifier.PublishTimeout,
		logger,
	)
}

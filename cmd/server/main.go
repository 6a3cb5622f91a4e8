package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"medsales/m/internal/api"
	"medsales/m/internal/config"
	"medsales/m/internal/database"
	"medsales/m/internal/migrations"
	"medsales/m/internal/seed"
	"medsales/m/internal/service"
	"medsales/m/internal/session"
	"medsales/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		logrus.Fatalf("logger error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.WithError(err).Error("medsales server stopped")
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	db, err := database.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if cfg.SQLDumpDir != "" {
		res, err := migrations.ImportDump(ctx, db, cfg.SQLDumpDir, logger)
		if err != nil {
			return fmt.Errorf("sql dump: %w", err)
		}
		logger.WithFields(logrus.Fields{"files": res.Files, "executed": res.Executed, "failed": res.Failed}).Info("sql dump imported")
	}

	svc := service.New(store.New(db), logger, service.Options{Mode: cfg.ReconcileMode, PhoneRegion: cfg.PhoneRegion})
	if cfg.AdminPassword != "" {
		created, err := svc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("default admin: %w", err)
		}
		if created {
			logger.WithField("username", cfg.AdminUsername).Info("default admin created")
		}
	}
	if cfg.MedicineCSV != "" {
		if _, err := seed.LoadMedicines(ctx, svc, cfg.MedicineCSV, logger); err != nil {
			logger.WithError(err).Warn("medicine catalog not loaded")
		}
	}

	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		sessionStore = session.NewRedisStore(client)
	}
	sessions := session.NewManager(sessionStore, cfg.Secret, cfg.SessionTTL)

	handler := api.New(svc, sessions, logger, cfg.LogFile)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": server.Addr, "reconcile_mode": cfg.ReconcileMode}).Info("medsales server starting")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil {
			logger.Printf("force close failed: %v", closeErr)
		}
	}
	return nil
}

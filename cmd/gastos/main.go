package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/backend"
	"github.com/mvidal/gastos/internal/config"
	"github.com/mvidal/gastos/internal/dbsync"
	"github.com/mvidal/gastos/internal/handler"
	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/settings"
	"github.com/mvidal/gastos/internal/sheets"
)

const settingsDBFile = "settings.db"

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}

	// Open settings and the backend manager
	settingsStore, err := settings.Open(filepath.Join(cfg.DataDir, settingsDBFile), cfg.EncryptionKey, logger)
	if err != nil {
		logger.Fatalf("Failed to open settings: %v", err)
	}
	defer settingsStore.Close()

	manager := backend.NewManager(cfg, settingsStore, logger)
	defer manager.Close()
	manager.Subscribe(func(t models.BackendType) {
		logger.Infof("Active backend is now %s", t)
	})
	if _, err := manager.Current(); err != nil {
		logger.Fatalf("Failed to open storage backend: %v", err)
	}

	// Initialize services
	sheetsSvc := sheets.NewService(logger)
	syncSvc := dbsync.NewService(logger)
	h := handler.NewHandler(manager, sheetsSvc, syncSvc, logger)

	// Refresh investment values daily
	scheduler := cron.New()
	_, err = scheduler.AddFunc("@daily", func() {
		repo, err := manager.Current()
		if err != nil {
			logger.Errorf("Skipping investment refresh, no backend: %v", err)
			return
		}
		if err := repo.Investments().RefreshAllValues(context.Background()); err != nil {
			logger.Errorf("Failed to refresh investment values: %v", err)
			return
		}
		logger.Info("Refreshed investment values")
	})
	if err != nil {
		logger.Fatalf("Failed to schedule investment refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

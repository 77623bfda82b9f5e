package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitos/gifter_levels/internal/config"
	"github.com/vitos/gifter_levels/internal/infrastructure/logger"
	"github.com/vitos/gifter_levels/internal/infrastructure/storage"
	"github.com/vitos/gifter_levels/internal/usecase"
	"github.com/vitos/gifter_levels/internal/web"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Load Tier Table (fatal when malformed: a wrong table produces
	// plausible-looking wrong answers)
	table, err := cfg.TierTable()
	if err != nil {
		log.Fatal("Invalid tier table", zap.Error(err))
	}

	// 4. Init Storage
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 5. Init Services
	auditLog := log
	if cfg.Logging.AuditFile != "" {
		auditLog, err = logger.NewFileLogger(cfg.Logging.AuditFile, cfg.Logging.Level)
		if err != nil {
			log.Error("Failed to init audit logger, using default", zap.Error(err))
			auditLog = log
		}
	}
	progression := usecase.NewProgressionService(table, store, auditLog)
	prices := usecase.NewPriceService(store, cfg.Currencies, log)

	// 6. Init Web Server
	server := web.NewServer(cfg.Server.Port, prices, progression, store, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 7. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	server.Shutdown(context.Background())
}

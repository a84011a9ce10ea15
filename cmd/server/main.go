package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geni-palette/internal/api"
	"geni-palette/internal/config"
	"geni-palette/internal/logger"
	"geni-palette/internal/service"
	"geni-palette/internal/storage"
	"geni-palette/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Writer: os.Stderr}).Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Writer:      os.Stdout,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
		AddSource:   !cfg.IsProduction(),
	})

	store, err := storage.NewStore(cfg.DataPath, cfg.NameLedgerLimit)
	if err != nil {
		log.Error("init store", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	client, err := service.NewChatClient(cfg)
	if err != nil {
		log.Error("init provider", "provider", cfg.AIProvider, "error", err)
		os.Exit(1)
	}
	palettes := service.NewPaletteService(
		service.NewChatSource(client),
		log,
		service.WithAttempts(cfg.GenerateAttempts),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(cfg, log, store, hub, palettes),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", cfg.ListenAddr, "provider", cfg.AIProvider, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	if err := store.Save(); err != nil {
		log.Error("flush store", "error", err)
	}
}

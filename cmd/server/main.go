package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/iiifsearch/internal/api"
	"github.com/dgallion1/iiifsearch/internal/config"
	"github.com/dgallion1/iiifsearch/internal/media"
	"github.com/dgallion1/iiifsearch/internal/search"
	"github.com/dgallion1/iiifsearch/internal/stats"
	"github.com/dgallion1/iiifsearch/internal/store"
)

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	table, err := media.DefaultTable()
	if err != nil {
		log.Error("load media type table", "error", err)
		os.Exit(1)
	}

	// Document source.
	var (
		st     store.Store
		remote *store.RemoteStore
	)
	if cfg.StoreURL != "" {
		remote = store.NewRemoteStore(cfg.StoreURL, cfg.StoreAPIKey, cfg.StoreTimeout, log)
		st = remote
		log.Info("using remote document store", "url", cfg.StoreURL)
	} else {
		st = store.NewFSStore(cfg.DataDir)
		log.Info("using filesystem document store", "dir", cfg.DataDir)
	}

	engine := search.NewEngine(search.Options{
		Store:          st,
		Classifier:     media.NewClassifier(table),
		URIs:           search.IIIFResolver{BaseURL: cfg.BaseURL},
		MinQueryLength: cfg.MinQueryLength,
		Logger:         log,
	})

	srv := api.NewServer(engine, st, stats.NewSearchStats(cfg.StatsWindow), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if remote != nil {
			remote.Close()
		}
	}()

	log.Info("starting iiifsearch", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

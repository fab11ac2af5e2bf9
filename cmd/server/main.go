package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/finlens/finlens/internal/api"
	"github.com/finlens/finlens/internal/config"
	"github.com/finlens/finlens/internal/docload"
	"github.com/finlens/finlens/internal/insight"
	"github.com/finlens/finlens/internal/store"
	"github.com/finlens/finlens/internal/textrank"
	"github.com/finlens/finlens/internal/toc"
)

func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	analyzer := insight.New(docload.Source{Store: st}, st, insight.Config{
		TOC: toc.Config{
			ScanWindow:      cfg.TOCScanWindow,
			MaxSectionPages: cfg.MaxSectionPages,
		},
		Summary: textrank.Config{
			TopK:          cfg.SummarySentences,
			MinSentences:  cfg.SummaryMinSentences,
			MinTokens:     cfg.SummaryMinTokens,
			Damping:       cfg.SummaryDamping,
			Convergence:   cfg.SummaryConvergence,
			MaxIterations: cfg.SummaryMaxIterations,
		},
		CacheTTL: cfg.CacheTTL,
	}, log)

	srv := api.NewServer(analyzer, st, log, cfg)

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

		st.Close()
	}()

	log.Info("starting finlens", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

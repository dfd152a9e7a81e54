package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-jobtracker-capture/internal/artifact"
	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/capture"
	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/database"
	"go-jobtracker-capture/internal/logger"
	"go-jobtracker-capture/internal/scraper/linkedin"
	"go-jobtracker-capture/internal/telegram"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := artifact.NewStore(cfg.Cache())
	renderer := browser.NewRenderer(browser.Options{
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout,
		CookiesPath:       cfg.CookiesPath,
		Scroll: browser.ScrollOptions{
			Step:     cfg.ScrollStep,
			Interval: cfg.ScrollInterval,
			MaxSteps: cfg.MaxScrollSteps,
		},
	}, zl)
	svc := capture.NewService(store, renderer, zl,
		capture.WithPostingFetcher(linkedin.NewGuestClient(cfg.FetchTimeout, zl)),
		capture.WithWorkers(cfg.SweepWorkers),
		capture.WithSweepDelay(time.Second, 3*time.Second),
	)

	srv := &server{
		svc:     svc,
		store:   store,
		log:     zl,
		baseCtx: ctx,
	}

	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("❌ Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			zl.Fatal("❌ Failed to prepare database", zap.Error(err))
		}
		srv.jobs = repo
		zl.Info("🗄️ Job store connected")
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			zl.Warn("⚠️ Telegram disabled", zap.Error(err))
		} else {
			srv.notify = bot
		}
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("🚀 Server listening", zap.String("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		zl.Fatal("❌ Server error", zap.Error(err))
	case <-ctx.Done():
		zl.Info("🛑 Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zl.Error("❌ Server shutdown error", zap.Error(err))
	}
	srv.sweepWG.Wait()
	zl.Info("👋 Server stopped")
}

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

	"go.uber.org/zap"

	"github.com/park285/chess-live-server/internal/archive"
	appcfg "github.com/park285/chess-live-server/internal/config"
	"github.com/park285/chess-live-server/internal/httpapi"
	"github.com/park285/chess-live-server/internal/hub"
	"github.com/park285/chess-live-server/internal/invite"
	"github.com/park285/chess-live-server/internal/msgcat"
	"github.com/park285/chess-live-server/internal/obslog"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	cfg, err := appcfg.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	cat, err := msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		logger.Fatal("message catalog error", zap.Error(err))
	}

	// Postgres gives both the game archive and the player directory; without
	// DATABASE_URL both fall back to memory.
	var (
		repo      archive.Repository
		players   archive.PlayerDirectory
		sqlCloser *archive.SQLRepository
	)
	if cfg.DatabaseURL != "" {
		sqlRepo, err := archive.NewSQLRepository(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database init error", zap.Error(err))
		}
		repo, players, sqlCloser = sqlRepo, sqlRepo, sqlRepo
	} else {
		repo = archive.NewMemoryRepository()
		players = archive.NewMemoryDirectory()
		logger.Info("archive_memory_mode")
	}

	var invites *invite.Store
	if cfg.RedisURL != "" {
		invites, err = invite.NewStore(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invite store init error", zap.Error(err))
		}
	} else {
		logger.Info("invite_store_disabled")
	}

	h := hub.New(players, cat, hub.Options{
		SendQueueSize:   cfg.SendQueueSize,
		NotifyQueueSize: cfg.NotifyQueueSize,
		SessionTTL:      cfg.SessionTTL,
		SweepInterval:   cfg.SessionSweepInterval,
	})
	h.AttachArchive(repo)
	h.AttachInviteStore(invites)
	h.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleUpgrade)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("ws_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ws server error", zap.Error(err))
		}
	}()

	var side *httpapi.Server
	if cfg.HealthAddr != "" {
		side = httpapi.New(h)
		go func() {
			if err := side.ListenAndServe(cfg.HealthAddr); err != nil {
				logger.Error("httpapi server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown_begin")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if side != nil {
		_ = side.Shutdown()
	}
	h.Close()
	_ = invites.Close()
	if sqlCloser != nil {
		_ = sqlCloser.Close()
	}
	logger.Info("shutdown_complete")
}

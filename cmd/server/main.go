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

	"ask/internal/config"
	"ask/internal/db"
	apperrors "ask/internal/errors"
	"ask/internal/logging"
	"ask/internal/metrics"
	"ask/internal/middleware"
	"ask/internal/rating"
	"ask/internal/router"
	"ask/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	// Initialize Database
	if err := db.Init(cfg); err != nil {
		slog.Error("Database initialization failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	reg := metrics.NewRegistry()
	apperrors.UseMetrics(metrics.NewHTTPMetrics(reg))
	ledger := rating.NewGormLedger(db.DB)
	engine := rating.NewEngine(ledger, metrics.NewVoteMetrics(reg))

	utils.ConfigureCache(cfg.CacheSize, cfg.CacheTTL)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Correlation(), middleware.RequestLogger())

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("ask_session", store))
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, router.Deps{
		Ledger:   ledger,
		Engine:   engine,
		Cache:    utils.GetCache(),
		Registry: reg,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("ask server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
	}
}

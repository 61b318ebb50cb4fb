package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"notely/docs"
	"notely/internal/auth"
	"notely/internal/cache"
	"notely/internal/config"
	"notely/internal/handler"
	"notely/internal/logging"
	"notely/internal/router"
	"notely/internal/service"
	"notely/internal/store"
)

// @title Notes API
// @version 1.0
// @description Personal notes with account sign-up, bearer-token access and per-user note isolation.
// @host localhost:8000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = ephemeralSecret()
		logger.Warn("ACCESS_TOKEN_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := cacheClient.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, profile cache will miss until it recovers", "addr", cfg.RedisAddr, "err", err)
		}
	}

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)

	// Initialize services
	authService := service.NewAuthService(st.Users, tokens)
	userService := service.NewUserService(st.Users, cacheClient)
	noteService := service.NewNoteService(st.Notes, st.Users)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	noteHandler := handler.NewNoteHandler(noteService)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(e, cfg, logger, tokens, authHandler, userHandler, noteHandler)

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", "addr", addr, "swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error("store close", "err", err)
	}
	if err := cacheClient.Close(); err != nil {
		logger.Error("cache close", "err", err)
	}
	logger.Info("server stopped")
}

// ephemeralSecret is only used with the memory store, where nothing outlives
// the process anyway.
func ephemeralSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

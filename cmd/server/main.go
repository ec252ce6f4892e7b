package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/edfefegeger/polymind/internal/arena"
	"github.com/edfefegeger/polymind/internal/config"
	cronrunner "github.com/edfefegeger/polymind/internal/cron"
	"github.com/edfefegeger/polymind/internal/db"
	"github.com/edfefegeger/polymind/internal/feed"
	"github.com/edfefegeger/polymind/internal/handler"
	"github.com/edfefegeger/polymind/internal/logger"
	"github.com/edfefegeger/polymind/internal/narrative"
	gormrepository "github.com/edfefegeger/polymind/internal/repository/gorm"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("POLYMIND_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("POLYMIND_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	hub := feed.NewHub(logger)

	registry := &arena.Registry{
		Repo:         store,
		Logger:       logger,
		InitialStake: cfg.Arena.InitialStake,
	}
	if err := registry.EnsureRoster(context.Background(), cfg.Arena.Agents); err != nil {
		logger.Fatal("roster init failed", zap.Error(err))
	}

	var narrator arena.Narrator
	if cfg.LLM.APIKey != "" {
		narrator = narrative.NewClient(
			&http.Client{Timeout: cfg.LLM.Timeout},
			cfg.LLM.BaseURL,
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			logger,
		)
	} else {
		logger.Info("no llm api key configured, using canned reasonings")
		narrator = &arena.CannedNarrator{}
	}

	lifecycle := &arena.Lifecycle{
		Repo:            store,
		Registry:        registry,
		Bets:            arena.NewRandomBetSource(cfg.Arena.BetMin, cfg.Arena.BetMax, time.Now().UnixNano()),
		Narrator:        narrator,
		Feed:            hub,
		Logger:          logger,
		DefaultDuration: cfg.Arena.DefaultDuration,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	agentHandler := &handler.AgentHandler{Registry: registry, Lifecycle: lifecycle}
	agentHandler.Register(engine)
	eventHandler := &handler.EventHandler{Lifecycle: lifecycle, Logger: logger}
	eventHandler.Register(engine)
	chatHandler := &handler.ChatHandler{Repo: store, Narrator: narrator}
	chatHandler.Register(engine)
	adminHandler := &handler.AdminHandler{Lifecycle: lifecycle}
	adminHandler.Register(engine)
	wsHandler := &handler.WSHandler{Feed: hub, Lifecycle: lifecycle, Logger: logger}
	wsHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.EventAdvance, func(ctx context.Context) {
			if err := lifecycle.AdvancePending(ctx); err != nil {
				logger.Warn("event advance failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register event advance failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

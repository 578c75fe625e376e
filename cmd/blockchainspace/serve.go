package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	cronrunner "blockchainspace/internal/cron"
	"blockchainspace/internal/db"
	"blockchainspace/internal/handler"
	"blockchainspace/internal/ratelimit"

	_ "blockchainspace/docs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled chain refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.logger
	cfg := a.cfg

	if a.db != nil {
		if err := db.AutoMigrate(a.db); err != nil {
			log.Fatal("auto-migrate failed", zap.Error(err))
		}
	}
	if err := a.settings.EnsureDefaultSwitches(ctx); err != nil {
		log.Warn("init default system switches failed", zap.Error(err))
	}

	engine, err := newEngine(a)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	cronRunner := cronrunner.New(log, ctx)
	if cfg.Cron.Enabled && cfg.Cron.ChainRefresh != "" {
		if _, err := cronRunner.Add("chain_refresh", cfg.Cron.ChainRefresh, a.refresh.RunScheduled); err != nil {
			log.Warn("cron register chain refresh failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case serveErr = <-errCh:
		log.Error("server error", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	return serveErr
}

// newEngine mounts every route on a fresh gin engine.
func newEngine(a *app) (*gin.Engine, error) {
	log := a.logger
	cfg := a.cfg

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	// ClientIP keys the chat limiter; only listed proxies may set it.
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("server.trusted_proxies: %w", err)
	}
	engine.Use(gin.Recovery())
	engine.Use(handler.RequestID())
	engine.Use(handler.AccessLog(log.Named("http")))
	engine.Use(handler.Instrument(a.metrics))
	engine.Use(handler.CORS())
	engine.Use(handler.MaxBodyBytes(cfg.Server.MaxBodyBytes))

	admin := handler.RequireAdmin(a.signer)
	if !a.signer.Enabled() {
		log.Warn("auth.jwt_secret not set, admin routes are open")
	}

	healthHandler := &handler.HealthHandler{DB: a.db, Redis: a.redis}
	if a.nats != nil {
		healthHandler.NATS = a.nats
	}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	chainsHandler := &handler.ChainsHandler{
		Store:   a.store,
		Source:  a.aggregator,
		Query:   a.query,
		Refresh: a.refresh,
		Admin:   admin,
		Logger:  log,
	}
	chainsHandler.Register(engine)
	chartHandler := &handler.ChartHandler{Service: a.ohlc, Logger: log}
	chartHandler.Register(engine)
	sentimentHandler := &handler.SentimentHandler{Service: a.sentiment, Logger: log}
	sentimentHandler.Register(engine)
	chatHandler := &handler.ChatHandler{
		Service: a.chat,
		Limiter: ratelimit.New(a.redis, ratelimit.Bucket{
			RefillPerSec: cfg.Chat.RefillPerSec,
			Burst:        cfg.Chat.Burst,
		}, log),
		Logger: log,
	}
	chatHandler.Register(engine)
	settingsHandler := &handler.SettingsHandler{Settings: a.settings, Admin: admin}
	settingsHandler.Register(engine)

	engine.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return engine, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"blockchainspace/internal/auth"
	"blockchainspace/internal/cache"
	"blockchainspace/internal/client/coingecko"
	"blockchainspace/internal/client/defillama"
	"blockchainspace/internal/client/genai"
	"blockchainspace/internal/config"
	"blockchainspace/internal/db"
	"blockchainspace/internal/events"
	"blockchainspace/internal/logger"
	"blockchainspace/internal/metrics"
	"blockchainspace/internal/repository"
	gormrepository "blockchainspace/internal/repository/gorm"
	"blockchainspace/internal/service"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	db      *db.DB
	dbErr   error
	repo    repository.Repository
	redis   *redis.Client
	metrics *metrics.Metrics
	nats    *events.NATSPublisher
	signer  auth.Signer

	settings   *service.SystemSettingsService
	store      *service.ChainStore
	aggregator *service.ChainAggregator
	query      *service.ChainQueryService
	refresh    *service.ChainRefreshService
	ohlc       *service.OHLCService
	sentiment  *service.SentimentService
	chat       *service.ChatService
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.Log, zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return wireApp(ctx, cfg, log), nil
}

// wireApp builds clients and services. The store is best effort: a missing,
// rejected or unreachable database leaves it unset and store-backed routes
// answer with a configuration error.
func wireApp(ctx context.Context, cfg config.Config, log *zap.Logger) *app {
	a := &app{
		cfg:     cfg,
		logger:  log,
		metrics: metrics.New(),
		signer:  auth.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer),
	}

	if cfg.DB.RejectedDSN != "" {
		log.Warn("database dsn is not a postgres url, ignoring it",
			zap.String("dsn", cfg.DB.RejectedDSN))
	}
	conn, err := db.Open(ctx, cfg.DB)
	a.dbErr = err
	switch {
	case errors.Is(err, db.ErrDSNMissing):
		log.Warn("database dsn not configured, store routes disabled")
	case err != nil:
		log.Warn("database unavailable, store routes disabled", zap.Error(err))
	default:
		a.db = conn
		if err := db.SetTimezone(conn, cfg.DB.Timezone); err != nil {
			log.Warn("failed to set timezone", zap.Error(err))
		}
		a.repo = gormrepository.New(conn.Gorm)
	}

	a.redis = cache.NewRedisClient(cfg.Redis)
	if a.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis ping failed, will keep retrying", zap.Error(err))
		}
		cancel()
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, cfg.App.Name, log)
		if err != nil {
			log.Warn("nats connect failed, events disabled", zap.Error(err))
		} else {
			a.nats = nc
			publisher = nc
		}
	}

	llamaHTTP := a.metrics.InstrumentClient("defillama", &http.Client{Timeout: cfg.DefiLlama.Timeout})
	geckoHTTP := a.metrics.InstrumentClient("coingecko", &http.Client{Timeout: cfg.CoinGecko.Timeout})
	chatHTTP := a.metrics.InstrumentClient("genai", &http.Client{Timeout: cfg.Chat.Timeout})

	var geckoLimiter *rate.Limiter
	if cfg.CoinGecko.RatePerMin > 0 {
		geckoLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.CoinGecko.RatePerMin)), 1)
	}
	llama := defillama.NewClient(llamaHTTP, cfg.DefiLlama.BaseURL)
	gecko := coingecko.NewClient(geckoHTTP, coingecko.Options{
		BaseURL:   cfg.CoinGecko.BaseURL,
		WebURL:    cfg.CoinGecko.WebURL,
		APIKey:    cfg.CoinGecko.APIKey,
		UserAgent: cfg.CoinGecko.UserAgent,
		Limiter:   geckoLimiter,
	})

	a.settings = &service.SystemSettingsService{Repo: a.repo}
	a.store = &service.ChainStore{Repo: a.repo, DocumentType: cfg.DB.DocumentType}
	a.aggregator = &service.ChainAggregator{
		Rankings:     llama,
		Markets:      gecko,
		TopN:         cfg.Aggregator.TopN,
		MarketsBatch: cfg.CoinGecko.MarketsBatch,
		Logger:       log.Named("aggregator"),
	}
	a.query = &service.ChainQueryService{Store: a.store}
	a.refresh = &service.ChainRefreshService{
		Source:    a.aggregator,
		Store:     a.store,
		States:    a.repo,
		Settings:  a.settings,
		Publisher: publisher,
		Subject:   cfg.NATS.Subject,
		Metrics:   a.metrics,
		Logger:    log.Named("refresh"),
	}
	a.ohlc = &service.OHLCService{Source: gecko, Days: cfg.Chart.Days}
	a.sentiment = &service.SentimentService{
		Source:      gecko,
		Cache:       cache.New(a.redis, cfg.App.Name),
		CacheTTL:    cfg.Sentiment.CacheTTL,
		Concurrency: cfg.Sentiment.Concurrency,
		MaxBatch:    cfg.Sentiment.MaxBatch,
		Logger:      log.Named("sentiment"),
		Metrics:     a.metrics,
	}
	a.chat = &service.ChatService{
		MaxWords: cfg.Chat.MaxWords,
		Settings: a.settings,
		Logger:   log.Named("chat"),
		Metrics:  a.metrics,
	}
	if cfg.Chat.APIKey != "" {
		model := genai.NewClient(chatHTTP, genai.Options{
			BaseURL: cfg.Chat.BaseURL,
			APIKey:  cfg.Chat.APIKey,
			Model:   cfg.Chat.Model,
		})
		a.chat.Model = model
		log.Info("chat relay enabled", zap.String("model", model.Model()))
	} else {
		log.Warn("chat api key not configured, chat relay disabled")
	}
	return a
}

func (a *app) Close() {
	if a == nil {
		return
	}
	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			a.logger.Warn("nats drain failed", zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = db.Close(a.db)
	_ = a.logger.Sync()
}

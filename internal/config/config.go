package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Cron       CronConfig       `mapstructure:"cron"`
	DefiLlama  DefiLlamaConfig  `mapstructure:"defillama"`
	CoinGecko  CoinGeckoConfig  `mapstructure:"coingecko"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Chart      ChartConfig      `mapstructure:"chart"`
	Sentiment  SentimentConfig  `mapstructure:"sentiment"`
	Chat       ChatConfig       `mapstructure:"chat"`
}

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Name string `mapstructure:"name"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	// TrustedProxies lists the proxy CIDRs whose X-Forwarded-For is honoured.
	// Empty means the socket peer is the client address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DBConfig holds the PostgreSQL connection. An empty DSN leaves the
// document store unconfigured; read and save routes then answer 500.
type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
	DocumentType    string        `mapstructure:"document_type"`

	// RejectedDSN holds a configured DSN that is not a PostgreSQL URL.
	// It is never dialled; the caller logs it and runs without a store.
	RejectedDSN string `mapstructure:"-"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

type CronConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ChainRefresh string `mapstructure:"chain_refresh"`
}

type DefiLlamaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CoinGeckoConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	WebURL       string        `mapstructure:"web_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RatePerMin   int           `mapstructure:"rate_per_min"`
	UserAgent    string        `mapstructure:"user_agent"`
	MarketsBatch int           `mapstructure:"markets_batch"`
}

type AggregatorConfig struct {
	TopN int `mapstructure:"top_n"`
}

type ChartConfig struct {
	Days int `mapstructure:"days"`
}

type SentimentConfig struct {
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	Concurrency int           `mapstructure:"concurrency"`
	MaxBatch    int           `mapstructure:"max_batch"`
}

type ChatConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxWords     int           `mapstructure:"max_words"`
	RefillPerSec int           `mapstructure:"refill_per_sec"`
	Burst        int           `mapstructure:"burst"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// Environment names used by the dashboard deployment.
	_ = v.BindEnv("chat.api_key", "BCS_CHAT_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("db.dsn", "BCS_DB_DSN", "DATABASE_URL", "MONGO_DB_URL")

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.name", "blockchainspace")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 4<<20)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.document_type", "blockchain-data")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "blockchainspace.chains.refreshed")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.issuer", "blockchainspace")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.chain_refresh", "@every 30m")
	v.SetDefault("defillama.base_url", "https://api.llama.fi")
	v.SetDefault("defillama.timeout", "15s")
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.web_url", "https://www.coingecko.com")
	v.SetDefault("coingecko.api_key", "")
	v.SetDefault("coingecko.timeout", "15s")
	v.SetDefault("coingecko.rate_per_min", 30)
	v.SetDefault("coingecko.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("coingecko.markets_batch", 250)
	v.SetDefault("aggregator.top_n", 53)
	v.SetDefault("chart.days", 30)
	v.SetDefault("sentiment.cache_ttl", "2m")
	v.SetDefault("sentiment.concurrency", 4)
	v.SetDefault("sentiment.max_batch", 20)
	v.SetDefault("chat.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.model", "gemini-2.0-flash-001")
	v.SetDefault("chat.timeout", "30s")
	v.SetDefault("chat.max_words", 200)
	v.SetDefault("chat.refill_per_sec", 1)
	v.SetDefault("chat.burst", 5)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if !IsPostgresDSN(cfg.DB.DSN) {
		cfg.DB.RejectedDSN = redactDSN(cfg.DB.DSN)
		cfg.DB.DSN = ""
	}

	return cfg, nil
}

// IsPostgresDSN reports whether dsn can be handed to the postgres driver.
// Key/value DSNs ("host=... dbname=...") carry no scheme and are accepted;
// URLs must use postgres:// or postgresql://. Empty is accepted.
func IsPostgresDSN(dsn string) bool {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || !strings.Contains(dsn, "://") {
		return true
	}
	scheme, _, _ := strings.Cut(dsn, "://")
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		scheme, _, _ := strings.Cut(dsn, "://")
		return scheme + "://..."
	}
	return u.Redacted()
}

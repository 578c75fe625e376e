package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"blockchainspace/internal/cache"
	"blockchainspace/internal/client/coingecko"
	"blockchainspace/internal/metrics"
)

const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"

	bullishThreshold     = 70
	bearishThreshold     = 30
	priceMoveThreshold   = 5
	defaultSentimentTTL  = 2 * time.Minute
	defaultSentimentJobs = 4
	defaultSentimentMax  = 20
)

var (
	ErrSymbolRequired = errors.New("symbol is required")
	ErrBatchTooLarge  = errors.New("sentiment batch too large")
)

type Sentiment struct {
	Sentiment  string  `json:"sentiment"`
	VotesUp    int64   `json:"votesUp"`
	VotesDown  int64   `json:"votesDown"`
	Percentage float64 `json:"percentage"`
}

func NeutralSentiment() Sentiment {
	return Sentiment{Sentiment: SentimentNeutral, Percentage: 50}
}

// NormalizeSentiment maps a vote payload to a display tuple. priceChange24h
// is only consulted for a count payload with no votes.
func NormalizeSentiment(p coingecko.SentimentPayload, priceChange24h float64) Sentiment {
	switch p.Kind {
	case coingecko.SentimentPercentages:
		return Sentiment{
			Sentiment:  classify(p.Positive),
			VotesUp:    roundHalfUp(p.Positive),
			VotesDown:  roundHalfUp(p.Negative),
			Percentage: clampPercent(round2(p.Positive)),
		}
	case coingecko.SentimentCounts:
		total := p.Bullish + p.Bearish
		out := Sentiment{
			VotesUp:   roundHalfUp(p.Bullish),
			VotesDown: roundHalfUp(p.Bearish),
		}
		if total <= 0 {
			out.Percentage = 50
			switch {
			case priceChange24h > priceMoveThreshold:
				out.Sentiment = SentimentBullish
			case priceChange24h < -priceMoveThreshold:
				out.Sentiment = SentimentBearish
			default:
				out.Sentiment = SentimentNeutral
			}
			return out
		}
		pct := p.Bullish / total * 100
		out.Sentiment = classify(pct)
		out.Percentage = clampPercent(round2(pct))
		return out
	default:
		return NeutralSentiment()
	}
}

func classify(pct float64) string {
	switch {
	case pct >= bullishThreshold:
		return SentimentBullish
	case pct <= bearishThreshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

func roundHalfUp(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Floor(v + 0.5))
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

type SentimentSource interface {
	Sentiment(ctx context.Context, symbol string) ([]byte, error)
}

type SentimentQuery struct {
	Key            string  `json:"key"`
	Symbol         string  `json:"symbol"`
	PriceChange24h float64 `json:"priceChange24h"`
}

type SentimentService struct {
	Source      SentimentSource
	Cache       cache.Store
	CacheTTL    time.Duration
	Concurrency int
	MaxBatch    int
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Lookup always returns a usable tuple. The error reports an upstream or
// decode failure, in which case the tuple is the neutral fallback.
func (s *SentimentService) Lookup(ctx context.Context, symbol string, priceChange24h float64) (Sentiment, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return NeutralSentiment(), ErrSymbolRequired
	}
	if s == nil {
		return NeutralSentiment(), errors.New("sentiment service not configured")
	}
	body, err := s.payload(ctx, symbol)
	if err != nil {
		s.Metrics.RecordSentiment("fallback")
		return NeutralSentiment(), err
	}
	parsed, err := coingecko.ParseSentiment(body)
	if err != nil {
		s.Metrics.RecordSentiment("fallback")
		return NeutralSentiment(), err
	}
	return NormalizeSentiment(parsed, priceChange24h), nil
}

// LookupMany resolves every query concurrently. Failed lookups fall back to
// neutral; only cancellation of ctx is reported.
func (s *SentimentService) LookupMany(ctx context.Context, queries []SentimentQuery) (map[string]Sentiment, error) {
	maxBatch := s.MaxBatch
	if maxBatch <= 0 {
		maxBatch = defaultSentimentMax
	}
	if len(queries) > maxBatch {
		return nil, fmt.Errorf("%w: at most %d symbols", ErrBatchTooLarge, maxBatch)
	}
	jobs := s.Concurrency
	if jobs <= 0 {
		jobs = defaultSentimentJobs
	}

	out := make(map[string]Sentiment, len(queries))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, q := range queries {
		key := q.Key
		if key == "" {
			key = q.Symbol
		}
		g.Go(func() error {
			res, err := s.Lookup(gctx, q.Symbol, q.PriceChange24h)
			if err != nil {
				s.logger().Debug("sentiment lookup fell back", zap.String("symbol", q.Symbol), zap.Error(err))
			}
			mu.Lock()
			out[key] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SentimentService) payload(ctx context.Context, symbol string) ([]byte, error) {
	if s == nil || s.Source == nil {
		return nil, errors.New("sentiment source not configured")
	}
	key := "sentiment:" + strings.ToLower(symbol)
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			s.Metrics.RecordSentiment("hit")
			return cached, nil
		} else if err != nil {
			s.logger().Warn("sentiment cache read failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	body, err := s.Source.Sentiment(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.Metrics.RecordSentiment("miss")
	if s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = defaultSentimentTTL
		}
		if err := s.Cache.Set(ctx, key, body, ttl); err != nil {
			s.logger().Warn("sentiment cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return body, nil
}

func (s *SentimentService) logger() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

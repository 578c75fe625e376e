package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"blockchainspace/internal/client/coingecko"
)

const DefaultChartDays = 30

var ErrIdentifierRequired = errors.New("identifier is required")

type PriceHistorySource interface {
	MarketChart(ctx context.Context, id string, days int) (*coingecko.MarketChart, error)
}

// Bar is one UTC calendar day of price action.
type Bar struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

type OHLCService struct {
	Source PriceHistorySource
	Days   int
}

func (s *OHLCService) Chart(ctx context.Context, identifier string) ([]Bar, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrIdentifierRequired
	}
	if s == nil || s.Source == nil {
		return nil, errors.New("price history source not configured")
	}
	days := s.Days
	if days <= 0 {
		days = DefaultChartDays
	}
	chart, err := s.Source.MarketChart(ctx, identifier, days)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", identifier, err)
	}
	return BuildDailyBars(identifier, chart.Prices), nil
}

// BuildDailyBars buckets ticks by UTC day. Within a day the first tick in
// input order opens and the last closes. Bars are ascending by day.
func BuildDailyBars(identifier string, ticks []coingecko.PricePoint) []Bar {
	type bucket struct {
		open, high, low, close float64
	}
	buckets := map[int64]*bucket{}
	days := make([]int64, 0)
	for _, tick := range ticks {
		day := dayStartMs(tick.TimestampMs)
		b, ok := buckets[day]
		if !ok {
			buckets[day] = &bucket{open: tick.Price, high: tick.Price, low: tick.Price, close: tick.Price}
			days = append(days, day)
			continue
		}
		b.high = max(b.high, tick.Price)
		b.low = min(b.low, tick.Price)
		b.close = tick.Price
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	bars := make([]Bar, 0, len(days))
	for idx, day := range days {
		b := buckets[day]
		bars = append(bars, Bar{
			ID:        fmt.Sprintf("%s-%d", identifier, idx),
			Timestamp: day,
			Open:      b.open,
			High:      b.high,
			Low:       b.low,
			Close:     b.close,
		})
	}
	return bars
}

func dayStartMs(ms int64) int64 {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}

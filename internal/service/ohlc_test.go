package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"blockchainspace/internal/client/coingecko"
)

type stubHistory struct {
	chart *coingecko.MarketChart
	err   error
	calls int
	days  int
}

func (s *stubHistory) MarketChart(_ context.Context, id string, days int) (*coingecko.MarketChart, error) {
	s.calls++
	s.days = days
	return s.chart, s.err
}

func ms(t time.Time) int64 { return t.UnixMilli() }

func TestBuildDailyBars(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	ticks := []coingecko.PricePoint{
		{TimestampMs: ms(d1.Add(1 * time.Hour)), Price: 10},
		{TimestampMs: ms(d1.Add(5 * time.Hour)), Price: 14},
		{TimestampMs: ms(d1.Add(9 * time.Hour)), Price: 8},
		{TimestampMs: ms(d1.Add(23 * time.Hour)), Price: 12},
		{TimestampMs: ms(d2), Price: 12.5},
	}
	bars := BuildDailyBars("ethereum", ticks)
	if len(bars) != 2 {
		t.Fatalf("bars=%d", len(bars))
	}
	first := bars[0]
	if first.ID != "ethereum-0" || first.Timestamp != ms(d1) {
		t.Fatalf("first=%#v", first)
	}
	if first.Open != 10 || first.High != 14 || first.Low != 8 || first.Close != 12 {
		t.Fatalf("first ohlc=%#v", first)
	}
	second := bars[1]
	if second.ID != "ethereum-1" || second.Timestamp != ms(d2) || second.Open != 12.5 || second.Close != 12.5 {
		t.Fatalf("second=%#v", second)
	}
	for _, b := range bars {
		if !(b.Low <= b.Open && b.Open <= b.High && b.Low <= b.Close && b.Close <= b.High) {
			t.Fatalf("bar invariant violated: %#v", b)
		}
	}
}

func TestBuildDailyBarsOrdersDays(t *testing.T) {
	d1 := time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)
	d0 := d1.Add(-24 * time.Hour)
	bars := BuildDailyBars("x", []coingecko.PricePoint{
		{TimestampMs: ms(d1), Price: 2},
		{TimestampMs: ms(d0), Price: 1},
	})
	if len(bars) != 2 || bars[0].Open != 1 || bars[1].Open != 2 || bars[0].Timestamp >= bars[1].Timestamp {
		t.Fatalf("bars=%#v", bars)
	}
}

func TestBuildDailyBarsEmpty(t *testing.T) {
	if bars := BuildDailyBars("x", nil); len(bars) != 0 {
		t.Fatalf("bars=%#v", bars)
	}
}

func TestChartValidatesBeforeFetching(t *testing.T) {
	src := &stubHistory{}
	svc := &OHLCService{Source: src}
	if _, err := svc.Chart(context.Background(), "  "); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("err=%v", err)
	}
	if src.calls != 0 {
		t.Fatalf("upstream called for empty identifier")
	}
}

func TestChartUpstreamError(t *testing.T) {
	src := &stubHistory{err: &coingecko.APIError{Status: 404, Body: "coin not found"}}
	_, err := (&OHLCService{Source: src}).Chart(context.Background(), "nope")
	var apiErr *coingecko.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v", err)
	}
	if src.days != DefaultChartDays {
		t.Fatalf("days=%d", src.days)
	}
}

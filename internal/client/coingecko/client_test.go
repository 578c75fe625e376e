package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("path=%s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ids") != "ethereum,solana" || q.Get("vs_currency") != "usd" || q.Get("per_page") != "250" {
			t.Errorf("query=%s", r.URL.RawQuery)
		}
		if r.Header.Get(demoKeyHeader) != "demo-key" {
			t.Errorf("missing demo key header")
		}
		_, _ = w.Write([]byte(`[
			{"id":"ethereum","symbol":"eth","name":"Ethereum","image":"https://img/eth.png","current_price":3000.5,"market_cap":360000000000,"total_volume":1.2e10,"price_change_percentage_24h":-1.5,"circulating_supply":120000000},
			{"id":"solana","symbol":"sol","name":"Solana","image":null,"current_price":null,"market_cap":null,"total_volume":null,"price_change_percentage_24h":null,"circulating_supply":null}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Options{BaseURL: srv.URL, APIKey: "demo-key"})
	items, err := client.Markets(context.Background(), []string{"ethereum", " ", "solana"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].MarketCap != 360000000000 || items[0].Image != "https://img/eth.png" {
		t.Fatalf("eth=%#v", items[0])
	}
	if items[1].MarketCap != 0 || items[1].CurrentPrice != 0 {
		t.Fatalf("nulls should decode to zero: %#v", items[1])
	}
}

func TestMarketsEmptyIDsSkipsCall(t *testing.T) {
	client := NewClient(&http.Client{Transport: failingTransport{t}}, Options{})
	items, err := client.Markets(context.Background(), nil)
	if err != nil || items != nil {
		t.Fatalf("items=%v err=%v", items, err)
	}
}

func TestMarketChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/ethereum/market_chart" || r.URL.Query().Get("days") != "30" {
			t.Errorf("url=%s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,10.5],[1700003600000,11]],"market_caps":[]}`))
	}))
	defer srv.Close()

	chart, err := NewClient(srv.Client(), Options{BaseURL: srv.URL}).MarketChart(context.Background(), "ethereum", 30)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(chart.Prices) != 2 || chart.Prices[0].TimestampMs != 1700000000000 || chart.Prices[1].Price != 11 {
		t.Fatalf("prices=%#v", chart.Prices)
	}
}

func TestMarketChartMalformed(t *testing.T) {
	tests := []string{
		`{"market_caps":[]}`,
		`{"prices":[[1700000000000]]}`,
		`not json`,
	}
	for _, body := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewClient(srv.Client(), Options{BaseURL: srv.URL}).MarketChart(context.Background(), "ethereum", 30)
		srv.Close()
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("body %q: err=%v, want ErrMalformedPayload", body, err)
		}
	}
}

func TestSentimentUsesBrowserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sentiment_votes/voted_coin_today" || r.URL.Query().Get("api_symbol") != "ethereum" {
			t.Errorf("url=%s", r.URL.String())
		}
		if r.Header.Get("User-Agent") != "test-browser" {
			t.Errorf("ua=%q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get(demoKeyHeader) != "" {
			t.Errorf("api key leaked to web host")
		}
		_, _ = w.Write([]byte(`{"percentage":{"positive":80,"negative":20}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Options{WebURL: srv.URL, UserAgent: "test-browser", APIKey: "k"})
	body, err := client.Sentiment(context.Background(), "ethereum")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	payload, err := ParseSentiment(body)
	if err != nil || payload.Kind != SentimentPercentages || payload.Positive != 80 {
		t.Fatalf("payload=%#v err=%v", payload, err)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), Options{BaseURL: srv.URL}).Markets(context.Background(), []string{"bitcoin"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("err=%v", err)
	}
}

func TestLimiterHonoursContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow()
	client := NewClient(&http.Client{Transport: failingTransport{t}}, Options{Limiter: limiter})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := client.Markets(ctx, []string{"bitcoin"}); err == nil {
		t.Fatalf("expected limiter wait error")
	}
}

type failingTransport struct{ t *testing.T }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.t.Fatalf("unexpected outbound request")
	return nil, errors.New("unreachable")
}

package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const (
	defaultHost    = "https://api.coingecko.com/api/v3"
	defaultWebHost = "https://www.coingecko.com"
	demoKeyHeader  = "x-cg-demo-api-key"
)

type Client struct {
	host       string
	webHost    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
	httpClient *http.Client
}

type Options struct {
	BaseURL   string
	WebURL    string
	APIKey    string
	UserAgent string
	// Limiter throttles every outbound call when set.
	Limiter *rate.Limiter
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	host := strings.TrimSpace(opts.BaseURL)
	if host == "" {
		host = defaultHost
	}
	web := strings.TrimSpace(opts.WebURL)
	if web == "" {
		web = defaultWebHost
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		webHost:    strings.TrimRight(web, "/"),
		apiKey:     strings.TrimSpace(opts.APIKey),
		userAgent:  strings.TrimSpace(opts.UserAgent),
		limiter:    opts.Limiter,
		httpClient: httpClient,
	}
}

// Markets fetches market rows for ids in one call. Unknown ids are simply
// absent from the result.
func (c *Client) Markets(ctx context.Context, ids []string) ([]Market, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("ids", strings.Join(cleaned, ","))
	query.Set("per_page", strconv.Itoa(max(len(cleaned), 250)))
	body, err := c.doRequest(ctx, c.host+"/coins/markets", query, false)
	if err != nil {
		return nil, err
	}
	var out []Market
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	return out, nil
}

func (c *Client) MarketChart(ctx context.Context, id string, days int) (*MarketChart, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("coin id is required")
	}
	if days <= 0 {
		days = 30
	}
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))
	body, err := c.doRequest(ctx, c.host+"/coins/"+url.PathEscape(id)+"/market_chart", query, false)
	if err != nil {
		return nil, err
	}
	return parseMarketChart(body)
}

// Sentiment returns today's community vote payload for symbol as served.
// Use ParseSentiment to classify it.
func (c *Client) Sentiment(ctx context.Context, symbol string) ([]byte, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("api_symbol", symbol)
	return c.doRequest(ctx, c.webHost+"/sentiment_votes/voted_coin_today", query, true)
}

func (c *Client) doRequest(ctx context.Context, fullURL string, query url.Values, browser bool) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if browser && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if !browser && c.apiKey != "" {
		req.Header.Set(demoKeyHeader, c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

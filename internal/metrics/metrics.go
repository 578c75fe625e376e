package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blockchainspace"

// Metrics owns its registry so several instances can coexist in tests.
// All record methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	RefreshRuns      *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	ChainsStored     prometheus.Gauge
	LastRefresh      prometheus.Gauge
	SentimentLookups *prometheus.CounterVec
	ChatRequests     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Outbound requests by upstream and status code",
		}, []string{"upstream", "code", "method"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Outbound request latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"upstream", "method"}),
		RefreshRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Chain refresh runs by status",
		}, []string{"status"}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Chain refresh duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120},
		}),
		ChainsStored: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "chains_stored",
			Help:      "Number of chains in the last stored aggregate",
		}),
		LastRefresh: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh",
		}),
		SentimentLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "lookups_total",
			Help:      "Sentiment lookups by result",
		}, []string{"result"}),
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Chat relay requests by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InstrumentClient wraps the client's transport with per-upstream counters
// and latency. A nil client yields a fresh instrumented client.
func (m *Metrics) InstrumentClient(upstream string, client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{}
	}
	if m == nil {
		return client
	}
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	labels := prometheus.Labels{"upstream": upstream}
	out := *client
	out.Transport = promhttp.InstrumentRoundTripperCounter(
		m.UpstreamRequests.MustCurryWith(labels),
		promhttp.InstrumentRoundTripperDuration(m.UpstreamDuration.MustCurryWith(labels), next),
	)
	return &out
}

func (m *Metrics) RecordRefresh(ok bool, chains int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RefreshDuration.Observe(elapsed.Seconds())
	if !ok {
		m.RefreshRuns.WithLabelValues("failed").Inc()
		return
	}
	m.RefreshRuns.WithLabelValues("ok").Inc()
	m.ChainsStored.Set(float64(chains))
	m.LastRefresh.SetToCurrentTime()
}

func (m *Metrics) RecordSentiment(result string) {
	if m == nil {
		return
	}
	m.SentimentLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordChat(outcome string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
}

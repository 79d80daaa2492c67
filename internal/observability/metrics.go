// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Chart metrics
	ChartRenders        *prometheus.CounterVec
	ChartRenderDuration *prometheus.HistogramVec
	ChartHitTests       prometheus.Counter
	SeriesResamples     prometheus.Counter
	DemoFallbacks       *prometheus.CounterVec

	// Market data metrics
	MarketFetches       *prometheus.CounterVec
	MarketFetchLatency  prometheus.Histogram
	FeedTicks           *prometheus.CounterVec
	FeedConnected       prometheus.Gauge
	FeedReconnects      prometheus.Counter
	LastEquitySnapshot  prometheus.Gauge
	EquitySnapshotValue prometheus.Gauge

	// Wallet and agent metrics
	RPCCallLatency *prometheus.HistogramVec
	FundingPolls   *prometheus.CounterVec
	AgentsCreated  *prometheus.CounterVec
	AgentStatus    *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics registers all metrics with reg under namespace.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "adam"
	}
	f := promauto.With(reg)

	return &Metrics{
		ChartRenders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "renders_total",
			Help:      "Total number of chart renders by format and outcome",
		}, []string{"format", "outcome"}),
		ChartRenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "render_duration_seconds",
			Help:      "Chart render and encode duration in seconds",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"format"}),
		ChartHitTests: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "hit_tests_total",
			Help:      "Total number of pointer hit-tests served",
		}),
		SeriesResamples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "resamples_total",
			Help:      "Total number of last-hour resamples",
		}),
		DemoFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "demo_fallbacks_total",
			Help:      "Series requests answered with the demo waveform",
		}, []string{"range"}),

		MarketFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "fetches_total",
			Help:      "Market data fetches by outcome",
		}, []string{"outcome"}),
		MarketFetchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "fetch_latency_seconds",
			Help:      "Market data fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		FeedTicks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_total",
			Help:      "Live price ticks received by symbol",
		}, []string{"symbol"}),
		FeedConnected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "connected",
			Help:      "1 when the live price feed is connected",
		}),
		FeedReconnects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Live price feed reconnect attempts",
		}),
		LastEquitySnapshot: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "last_snapshot_timestamp",
			Help:      "Unix timestamp of the last equity snapshot",
		}),
		EquitySnapshotValue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "equity_usd",
			Help:      "Equity value of the last snapshot in USD",
		}),

		RPCCallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "rpc_call_latency_seconds",
			Help:      "Chain RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		FundingPolls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "funding_polls_total",
			Help:      "Funding balance polls by chain and outcome",
		}, []string{"chain", "outcome"}),
		AgentsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agents",
			Name:      "created_total",
			Help:      "Agents created by chain",
		}, []string{"chain"}),
		AgentStatus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agents",
			Name:      "status_transitions_total",
			Help:      "Agent status transitions by target status",
		}, []string{"status"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordRender records one chart render.
func RecordRender(format string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DefaultMetrics.ChartRenders.WithLabelValues(format, outcome).Inc()
	DefaultMetrics.ChartRenderDuration.WithLabelValues(format).Observe(d.Seconds())
}

// RecordHitTest increments the hit-test counter.
func RecordHitTest() {
	DefaultMetrics.ChartHitTests.Inc()
}

// RecordResample increments the resample counter.
func RecordResample() {
	DefaultMetrics.SeriesResamples.Inc()
}

// RecordDemoFallback records a request served from the demo waveform.
func RecordDemoFallback(rng string) {
	DefaultMetrics.DemoFallbacks.WithLabelValues(rng).Inc()
}

// RecordMarketFetch records a market data fetch.
func RecordMarketFetch(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DefaultMetrics.MarketFetches.WithLabelValues(outcome).Inc()
	DefaultMetrics.MarketFetchLatency.Observe(d.Seconds())
}

// RecordFeedTick records a live price tick.
func RecordFeedTick(symbol string) {
	DefaultMetrics.FeedTicks.WithLabelValues(symbol).Inc()
}

// SetFeedConnected updates the feed connection gauge.
func SetFeedConnected(connected bool) {
	if connected {
		DefaultMetrics.FeedConnected.Set(1)
		return
	}
	DefaultMetrics.FeedConnected.Set(0)
}

// RecordFeedReconnect increments the reconnect counter.
func RecordFeedReconnect() {
	DefaultMetrics.FeedReconnects.Inc()
}

// RecordEquitySnapshot records a portfolio valuation.
func RecordEquitySnapshot(at time.Time, value float64) {
	DefaultMetrics.LastEquitySnapshot.Set(float64(at.Unix()))
	DefaultMetrics.EquitySnapshotValue.Set(value)
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordFundingPoll records one balance poll for an agent wallet.
func RecordFundingPoll(chain, outcome string) {
	DefaultMetrics.FundingPolls.WithLabelValues(chain, outcome).Inc()
}

// RecordAgentCreated increments the agent creation counter.
func RecordAgentCreated(chain string) {
	DefaultMetrics.AgentsCreated.WithLabelValues(chain).Inc()
}

// RecordAgentStatus records a lifecycle transition.
func RecordAgentStatus(status string) {
	DefaultMetrics.AgentStatus.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route string, code int, d time.Duration) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, statusClass(code)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

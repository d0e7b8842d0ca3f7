// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Presale metrics
	PurchasesRecorded prometheus.Counter
	TokensSold        prometheus.Counter
	ClaimsExecuted    prometheus.Counter
	TokensClaimed     prometheus.Counter
	ClaimErrors       *prometheus.CounterVec

	// Oracle metrics
	OracleQuoteLatency  prometheus.Histogram
	OracleDegradedTotal prometheus.Counter

	// Chain metrics
	RPCCallLatency *prometheus.HistogramVec
	TxSubmitsTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulClaim prometheus.Gauge
	UptimeSeconds       prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "presale_vesting"
	}

	return &Metrics{
		// Presale metrics
		PurchasesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presale",
			Name:      "purchases_total",
			Help:      "Total number of purchases recorded",
		}),
		TokensSold: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presale",
			Name:      "tokens_sold_total",
			Help:      "Total token amount sold across all purchases",
		}),
		ClaimsExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presale",
			Name:      "claims_total",
			Help:      "Total number of tranche claims executed",
		}),
		TokensClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presale",
			Name:      "tokens_claimed_total",
			Help:      "Total token amount released by claims",
		}),
		ClaimErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presale",
			Name:      "claim_errors_total",
			Help:      "Total number of rejected claims by reason",
		}, []string{"reason"}),

		// Oracle metrics
		OracleQuoteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "quote_latency_seconds",
			Help:      "Price quote fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		OracleDegradedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "degraded_quotes_total",
			Help:      "Total number of quotes served from cache or fallback",
		}),

		// Chain metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "rpc_call_latency_seconds",
			Help:      "Chain RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		TxSubmitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "tx_submits_total",
			Help:      "Total number of transaction submissions by kind",
		}, []string{"kind"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by path and status",
		}, []string{"path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),

		// Health metrics
		LastSuccessfulClaim: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_claim_timestamp",
			Help:      "Unix timestamp of last successful claim",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPurchase records a completed purchase.
func RecordPurchase(tokens float64) {
	DefaultMetrics.PurchasesRecorded.Inc()
	DefaultMetrics.TokensSold.Add(tokens)
}

// RecordClaim records a successful tranche claim.
func RecordClaim(tokens float64, unixSeconds float64) {
	DefaultMetrics.ClaimsExecuted.Inc()
	DefaultMetrics.TokensClaimed.Add(tokens)
	DefaultMetrics.LastSuccessfulClaim.Set(unixSeconds)
}

// RecordClaimError records a rejected claim by reason.
func RecordClaimError(reason string) {
	DefaultMetrics.ClaimErrors.WithLabelValues(reason).Inc()
}

// RecordOracleLatency records a price quote fetch latency.
func RecordOracleLatency(seconds float64) {
	DefaultMetrics.OracleQuoteLatency.Observe(seconds)
}

// RecordOracleDegraded increments the degraded quote counter.
func RecordOracleDegraded() {
	DefaultMetrics.OracleDegradedTotal.Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordTxSubmit records a transaction submission.
func RecordTxSubmit(kind string) {
	DefaultMetrics.TxSubmitsTotal.WithLabelValues(kind).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordUptimeTick adds one tick interval to the uptime counter.
func RecordUptimeTick(seconds float64) {
	DefaultMetrics.UptimeSeconds.Add(seconds)
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(path, status string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(path, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(path).Observe(seconds)
}

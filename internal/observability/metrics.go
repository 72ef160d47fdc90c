package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess        = "success"
	ResultNoData         = "no_data"
	ResultInvalidSession = "invalid_session"
	ResultFailure        = "failure"
)

var (
	// AuthenticationsTotal counts portal authentication attempts, labeled by result
	AuthenticationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_authentications_total",
			Help: "Total number of portal authentication attempts, labeled by result.",
		},
		[]string{"result"}, // success or the failure kind
	)

	// SyncsTotal counts sync operations, labeled by data kind and result
	SyncsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_syncs_total",
			Help: "Total number of sync operations, labeled by data kind and result.",
		},
		[]string{"kind", "result"},
	)

	// PortalRequestsTotal counts outgoing portal requests, labeled by method and status code
	PortalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_portal_requests_total",
			Help: "Total number of requests sent to the portal, labeled by method and status code.",
		},
		[]string{"method", "code"},
	)

	// PortalRequestDurationSeconds observes the latency of outgoing portal requests
	PortalRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oasis_portal_request_duration_seconds",
			Help:    "Histogram of portal request latencies in seconds, labeled by method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// HTTPRequestsTotal counts requests handled by the API, labeled by method and status code
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_http_requests_total",
			Help: "Total number of HTTP requests handled by the API, labeled by method and status code.",
		},
		[]string{"method", "code"},
	)
)

// MustRegister registers every metric defined above at the given registerer.
// It has to be called only once per registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		AuthenticationsTotal,
		SyncsTotal,
		PortalRequestsTotal,
		PortalRequestDurationSeconds,
		HTTPRequestsTotal,
	)
}

// RecordAuthentication counts an authentication attempt
func RecordAuthentication(result string) {
	AuthenticationsTotal.WithLabelValues(result).Inc()
}

// RecordSync counts a sync operation
func RecordSync(kind, result string) {
	SyncsTotal.WithLabelValues(kind, result).Inc()
}

// InstrumentTransport wraps a round tripper so that every portal request is counted and timed
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(PortalRequestsTotal,
		promhttp.InstrumentRoundTripperDuration(PortalRequestDurationSeconds, next))
}

// InstrumentHandler wraps an HTTP handler so that every handled request is counted
func InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(HTTPRequestsTotal, next)
}

// Handler serves the metrics of the given gatherer in the Prometheus exposition format
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

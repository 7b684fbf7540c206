package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for the delivery gateway.
type Metrics struct {
	registry                *prometheus.Registry
	requestsTotal           prometheus.Counter
	playlistsRewrittenTotal prometheus.Counter
	segmentsStreamedTotal   prometheus.Counter
	signingFailuresTotal    prometheus.Counter
	errorsTotal             prometheus.Counter
}

// New creates and registers the gateway metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlsgate_requests_total",
		Help: "Total number of HTTP requests received",
	})
	playlistsRewrittenTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlsgate_playlists_rewritten_total",
		Help: "Total number of master and variant playlists rewritten",
	})
	segmentsStreamedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlsgate_segments_streamed_total",
		Help: "Total number of media segments proxied to clients",
	})
	signingFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlsgate_signing_failures_total",
		Help: "Total number of presign operations that failed",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlsgate_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		playlistsRewrittenTotal,
		segmentsStreamedTotal,
		signingFailuresTotal,
		errorsTotal,
	)

	return &Metrics{
		registry:                registry,
		requestsTotal:           requestsTotal,
		playlistsRewrittenTotal: playlistsRewrittenTotal,
		segmentsStreamedTotal:   segmentsStreamedTotal,
		signingFailuresTotal:    signingFailuresTotal,
		errorsTotal:             errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncPlaylistsRewritten increments the rewritten-playlist counter.
func (m *Metrics) IncPlaylistsRewritten() {
	m.playlistsRewrittenTotal.Inc()
}

// IncSegmentsStreamed increments the proxied-segment counter.
func (m *Metrics) IncSegmentsStreamed() {
	m.segmentsStreamedTotal.Inc()
}

// IncSigningFailures increments the presign failure counter.
func (m *Metrics) IncSigningFailures() {
	m.signingFailuresTotal.Inc()
}

// IncErrors increments the error response counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves the Prometheus scrape
// endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

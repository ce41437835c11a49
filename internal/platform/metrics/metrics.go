package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the SongBid API.
type Metrics struct {
	registry          *prometheus.Registry
	requestsTotal     prometheus.Counter
	errorsTotal       prometheus.Counter
	uploadsTotal      prometheus.Counter
	videoPagesServed  prometheus.Counter
	vimeoTicketsTotal prometheus.Counter
	storedVideos      prometheus.Gauge
}

// New creates and registers the metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "songbid_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "songbid_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "songbid_uploads_total",
		Help: "Total number of video uploads accepted",
	})
	videoPagesServed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "songbid_video_pages_served_total",
		Help: "Total number of video list pages served",
	})
	vimeoTicketsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "songbid_vimeo_tickets_total",
		Help: "Total number of Vimeo upload tickets created",
	})
	storedVideos := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "songbid_stored_videos",
		Help: "Number of uploaded videos held in memory",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		uploadsTotal,
		videoPagesServed,
		vimeoTicketsTotal,
		storedVideos,
	)

	return &Metrics{
		registry:          registry,
		requestsTotal:     requestsTotal,
		errorsTotal:       errorsTotal,
		uploadsTotal:      uploadsTotal,
		videoPagesServed:  videoPagesServed,
		vimeoTicketsTotal: vimeoTicketsTotal,
		storedVideos:      storedVideos,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncUploads increments the accepted uploads counter.
func (m *Metrics) IncUploads() {
	m.uploadsTotal.Inc()
}

// IncVideoPagesServed increments the served pages counter.
func (m *Metrics) IncVideoPagesServed() {
	m.videoPagesServed.Inc()
}

// IncVimeoTickets increments the Vimeo ticket counter.
func (m *Metrics) IncVimeoTickets() {
	m.vimeoTicketsTotal.Inc()
}

// SetStoredVideos sets the stored videos gauge.
func (m *Metrics) SetStoredVideos(n int) {
	m.storedVideos.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	inner := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		inner.ServeHTTP(w, r)
	})
}

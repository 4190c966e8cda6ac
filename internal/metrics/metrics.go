package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP requests and the
// summary pipeline.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	summariesTotal  *prometheus.CounterVec
	syncTotal       *prometheus.CounterVec
	batchDuration   prometheus.Histogram
}

// NewCollector constructs a collector backed by its own registry.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "autobrief",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobrief",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	summariesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobrief",
		Subsystem: "summary",
		Name:      "generated_total",
		Help:      "Total summaries generated, by outcome.",
	}, []string{"outcome"})

	syncTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobrief",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Total per-user sync runs, by result.",
	}, []string{"result"})

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "autobrief",
		Subsystem: "batch",
		Name:      "duration_seconds",
		Help:      "Duration of daily summary batch runs.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	})

	for _, c := range []prometheus.Collector{
		requestDuration, requestTotal, summariesTotal, syncTotal, batchDuration,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		summariesTotal:  summariesTotal,
		syncTotal:       syncTotal,
		batchDuration:   batchDuration,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// SummaryGenerated records one generated summary. Outcome is one of
// "report", "no_data", "no_match".
func (c *Collector) SummaryGenerated(outcome string) {
	c.summariesTotal.WithLabelValues(outcome).Inc()
}

// SyncRun records one per-user sync. Result is "ok" or "error".
func (c *Collector) SyncRun(result string) {
	c.syncTotal.WithLabelValues(result).Inc()
}

// BatchCompleted records the duration of one daily batch run.
func (c *Collector) BatchCompleted(d time.Duration) {
	c.batchDuration.Observe(d.Seconds())
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

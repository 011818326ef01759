// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "receipt"

// Metrics groups the service collectors
type Metrics struct {
	Jobs             *prometheus.CounterVec
	JobSeconds       *prometheus.HistogramVec
	QueueBytes       *prometheus.CounterVec
	QueueWaitSeconds *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		Jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Print jobs by kind and result.",
		}, []string{"kind", "result"}),
		JobSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Time from request to the last byte accepted by the device.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		QueueBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Bytes accepted by each printer queue.",
		}, []string{"queue"}),
		QueueWaitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_wait_seconds",
			Help:      "Time spent waiting for a busy printer queue.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30},
		}, []string{"queue"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		gatherer: gatherer,
	}
	reg.MustRegister(m.Jobs, m.JobSeconds, m.QueueBytes, m.QueueWaitSeconds, m.HTTPRequests)
	return m
}

// QueueWait records the time a job waited for its queue
func (m *Metrics) QueueWait(queue string, d time.Duration) {
	m.QueueWaitSeconds.WithLabelValues(queue).Observe(d.Seconds())
}

// BytesWritten counts bytes delivered to a queue
func (m *Metrics) BytesWritten(queue string, n int) {
	m.QueueBytes.WithLabelValues(queue).Add(float64(n))
}

// JobFinished records the outcome of a job
func (m *Metrics) JobFinished(kind, result string, d time.Duration) {
	m.Jobs.WithLabelValues(kind, result).Inc()
	m.JobSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

// HTTPRequest counts a served request
func (m *Metrics) HTTPRequest(method, path string, status int) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	WebhookRequests *prometheus.CounterVec
	RequestLatency  prometheus.Histogram
	MessagesStored  prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"path", "status"}),
		WebhookRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook processing outcomes",
		}, []string{"result"}),
		RequestLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "request_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: []float64{100, 500},
		}),
		MessagesStored: factory.NewGauge(prometheus.GaugeOpts{
			Name: "messages_stored",
			Help: "Number of messages in the store at the last refresh",
		}),
	}
}

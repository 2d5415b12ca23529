// Package metrics holds the Prometheus collectors of the fleet backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fleet"

// Metrics groups every collector the backend updates.
type Metrics struct {
	Classifications  *prometheus.CounterVec
	FilterRequests   *prometheus.CounterVec
	Mutations        *prometheus.CounterVec
	CertificateDrift prometheus.Gauge
	AlertsSent       *prometheus.CounterVec
	SweepDuration    prometheus.Histogram
}

// New registers the collectors with reg. Passing nil uses a private
// registry, which keeps tests independent of the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Certificate classifications by resulting status.",
		}, []string{"result"}),
		FilterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_requests_total",
			Help:      "List requests by collection.",
		}, []string{"collection"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Successful writes by collection and operation.",
		}, []string{"collection", "op"}),
		CertificateDrift: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_drift",
			Help:      "Certificates whose stored status disagrees with their expiration date, as of the last sweep.",
		}),
		AlertsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_sent_total",
			Help:      "Push notifications by outcome.",
		}, []string{"outcome"}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of certificate sweeps.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

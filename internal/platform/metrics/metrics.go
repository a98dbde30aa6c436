package metrics

import (
	"net/http"
	"strconv"
	"time"

	"shelter-adoptions/internal/domain/dogs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa las métricas del proceso sobre un registry propio
// (así cada test o router puede crear el suyo sin registrar dos veces).
type Metrics struct {
	Registry *prometheus.Registry

	ReconcileTotal    *prometheus.CounterVec
	ReconcileDuration *prometheus.HistogramVec
	CascadeRejections prometheus.Counter
	DogTransitions    *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		// outcome: ok, conflict, invariant_violation, unavailable, not_found, invalid_input, timeout, error
		ReconcileTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_reconcile_total",
			Help: "Reconciliations by outcome",
		}, []string{"outcome"}),

		ReconcileDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelter_reconcile_duration_seconds",
			Help:    "Duration of a reconciliation including lock wait and commit",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"outcome"}),

		CascadeRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "shelter_cascade_rejections_total",
			Help: "Applications rejected automatically because a sibling was approved",
		}),

		DogTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_dog_availability_transitions_total",
			Help: "Dog availability changes",
		}, []string{"from", "to"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_http_requests_total",
			Help: "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelter_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) ObserveReconcile(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ReconcileTotal.WithLabelValues(outcome).Inc()
	m.ReconcileDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) AddCascadeRejections(n int) {
	if m != nil && n > 0 {
		m.CascadeRejections.Add(float64(n))
	}
}

func (m *Metrics) ObserveDogTransition(from, to dogs.Availability) {
	if m != nil {
		m.DogTransitions.WithLabelValues(string(from), string(to)).Inc()
	}
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

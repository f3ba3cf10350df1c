// Package metrics expone los contadores Prometheus del ledger, la facturación y la capa HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
)

const namespace = "gestionale"

var (
	_ inventory.Observer = (*Registry)(nil)
	_ billing.Observer   = (*Registry)(nil)
)

// Registry agrupa los colectores sobre un registro propio (no el global), para que cada
// instancia de la aplicación y cada test tenga el suyo.
type Registry struct {
	reg *prometheus.Registry

	movements          *prometheus.CounterVec
	driftDetected      prometheus.Counter
	driftRepaired      prometheus.Counter
	invoiceTransitions *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registra los colectores. appName se añade como etiqueta constante.
func New(appName string) *Registry {
	if appName == "" {
		appName = "gestionale-api"
	}
	constLabels := prometheus.Labels{"service": appName}
	r := &Registry{
		reg: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stock_movements_total",
			Help:        "Movimientos de stock aplicados por tipo.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		driftDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stock_drift_detected_total",
			Help:        "Productos cuyo stock cacheado no coincide con el historial.",
			ConstLabels: constLabels,
		}),
		driftRepaired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stock_drift_repaired_total",
			Help:        "Descuadres de stock corregidos por la reconciliación.",
			ConstLabels: constLabels,
		}),
		invoiceTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "invoice_transitions_total",
			Help:        "Cambios de estado de facturas.",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Peticiones HTTP por ruta y código.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "Latencia de las peticiones HTTP.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
	}
	r.reg.MustRegister(
		r.movements,
		r.driftDetected,
		r.driftRepaired,
		r.invoiceTransitions,
		r.httpRequests,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) MovementApplied(kind string) { r.movements.WithLabelValues(kind).Inc() }
func (r *Registry) DriftDetected()              { r.driftDetected.Inc() }
func (r *Registry) DriftRepaired()              { r.driftRepaired.Inc() }

func (r *Registry) InvoiceTransition(from, to string) {
	r.invoiceTransitions.WithLabelValues(from, to).Inc()
}

// ObserveRequest registra una petición HTTP ya respondida. route es el patrón, no la URL.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler sirve el formato de exposición de Prometheus.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer para tests y exportadores externos.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

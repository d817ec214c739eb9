// Package metrics métricas Prometheus de la API: tráfico HTTP y resultado de las compras.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
)

var _ marketplace.PurchaseObserver = (*Metrics)(nil)

// Metrics colectores registrados en un registry propio (no el global) para poder
// crear varias instancias en tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
	purchases     *prometheus.CounterVec
	purchasedQty  prometheus.Counter
	purchaseTotal prometheus.Counter
}

// New crea y registra los colectores. prefix se antepone a cada nombre (ej. "farmlink").
func New(prefix string) *Metrics {
	if prefix == "" {
		prefix = "farmlink"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
		purchases: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_purchases_total",
			Help: "Purchase attempts by outcome",
		}, []string{"outcome"}),
		purchasedQty: f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_purchased_quantity_total",
			Help: "Units sold through successful purchases",
		}),
		purchaseTotal: f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_purchase_revenue_total",
			Help: "Revenue of successful purchases",
		}),
	}
}

// ObserveHTTP registra una petición terminada. path debe ser la ruta plantilla (/api/listings/:id)
// para no disparar la cardinalidad.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	s := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, s).Inc()
	m.httpDuration.WithLabelValues(method, path, s).Observe(elapsed.Seconds())
}

// InFlight ajusta el gauge de peticiones en curso (+1 al entrar, -1 al salir).
func (m *Metrics) InFlight(delta float64) {
	m.httpInFlight.Add(delta)
}

// ObservePurchase implementa marketplace.PurchaseObserver.
func (m *Metrics) ObservePurchase(outcome string, quantity, total decimal.Decimal) {
	m.purchases.WithLabelValues(outcome).Inc()
	if outcome == marketplace.OutcomeOK {
		m.purchasedQty.Add(quantity.InexactFloat64())
		m.purchaseTotal.Add(total.InexactFloat64())
	}
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso directo al registry (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

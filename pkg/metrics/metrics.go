package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contadores del storefront expuestos en /metrics.
type Metrics struct {
	registry *prometheus.Registry

	Logins         *prometheus.CounterVec // result: ok | rejected | error
	Logouts        prometheus.Counter
	ForcedLogouts  prometheus.Counter // 401 recibido de la API
	OrdersPlaced   *prometheus.CounterVec
	OrderFailures  prometheus.Counter
	GuardDecisions *prometheus.CounterVec
	ActiveVisitors prometheus.Gauge
}

// New crea un registro propio (no el global) para que cada instancia, incluidos los tests, sea independiente.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "logins_total", Help: "Intentos de login por resultado.",
		}, []string{"result"}),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "logouts_total", Help: "Logouts explícitos.",
		}),
		ForcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "forced_logouts_total", Help: "Sesiones cerradas por un 401 de la API.",
		}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_placed_total", Help: "Pedidos creados desde el checkout.",
		}, []string{"payment_method"}),
		OrderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "order_failures_total", Help: "Creaciones de pedido rechazadas.",
		}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "guard_decisions_total", Help: "Decisiones del guard de rutas.",
		}, []string{"outcome"}),
		ActiveVisitors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_visitors", Help: "Visitantes con estado en memoria.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		m.Logins, m.Logouts, m.ForcedLogouts, m.OrdersPlaced, m.OrderFailures,
		m.GuardDecisions, m.ActiveVisitors,
	)
	return m
}

// Handler http.Handler de exposición (montado en fiber con el adaptor).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry acceso directo (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LoginFinished cuenta un intento de login por resultado.
func (m *Metrics) LoginFinished(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

// LoggedOut cuenta un cierre de sesión; forced si lo provocó un 401.
func (m *Metrics) LoggedOut(forced bool) {
	if forced {
		m.ForcedLogouts.Inc()
		return
	}
	m.Logouts.Inc()
}

// Package metrics exposes Prometheus counters for store activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buzmarkt/storefront/internal/state"
)

// Metrics holds the storefront collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	actionsDispatched *prometheus.CounterVec
	asyncOperations   *prometheus.CounterVec
	persistWrites     *prometheus.CounterVec
	cartItems         prometheus.Gauge
	favouriteItems    prometheus.Gauge
}

// New registers the collectors on reg, or on a fresh registry when reg is
// nil.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		actionsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_actions_dispatched_total",
				Help: "Total number of actions dispatched to the store",
			},
			[]string{"namespace", "action"},
		),
		asyncOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_async_operations_total",
				Help: "Asynchronous operation lifecycle events by phase",
			},
			[]string{"operation", "phase"},
		),
		persistWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_persist_writes_total",
				Help: "Persisted state writes by result",
			},
			[]string{"result"},
		),
		cartItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_cart_items",
				Help: "Sum of line item quantities in the cart",
			},
		),
		favouriteItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_favourite_items",
				Help: "Number of saved favourites",
			},
		),
	}
}

// Middleware counts every dispatched action and async lifecycle phase.
func (m *Metrics) Middleware() state.Middleware {
	return func(next state.DispatchFunc) state.DispatchFunc {
		return func(a state.Action) {
			m.actionsDispatched.WithLabelValues(string(a.Namespace()), a.Type()).Inc()
			if async, ok := a.(state.AsyncAction); ok {
				m.asyncOperations.WithLabelValues(async.Operation(), async.Phase().String()).Inc()
			}
			next(a)
		}
	}
}

// Observe is a state.Listener that tracks collection sizes.
func (m *Metrics) Observe(st state.RootState, _ state.Action) {
	m.cartItems.Set(float64(st.Cart.Count()))
	m.favouriteItems.Set(float64(len(st.Favourite.Items)))
}

// ObservePersistWrite records the result of one persisted state write.
func (m *Metrics) ObservePersistWrite(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persistWrites.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

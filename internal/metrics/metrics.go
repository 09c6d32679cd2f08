// Package metrics holds the Prometheus collectors for partner and auth traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the partner lifecycle and admin auth.
type Metrics struct {
	registry *prometheus.Registry

	PartnersRegistered prometheus.Counter
	PartnersCreated    prometheus.Counter
	Transitions        *prometheus.CounterVec
	Appends            *prometheus.CounterVec
	RatingRejections   prometheus.Counter
	Logins             *prometheus.CounterVec
}

// New registers every collector on a fresh registry, so tests can build
// as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PartnersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "love_partners_registered_total",
			Help: "Total number of public registrations accepted as pending",
		}),
		PartnersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "love_partners_created_total",
			Help: "Total number of partners created directly by an admin",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "love_partner_transitions_total",
			Help: "Status transitions applied, by target status",
		}, []string{"status"}),
		Appends: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "love_partner_appends_total",
			Help: "Collection appends, by kind",
		}, []string{"kind"}),
		RatingRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "love_partner_rating_rejections_total",
			Help: "Rating updates rejected for falling outside 1..5",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "love_auth_logins_total",
			Help: "Admin login attempts, by result",
		}, []string{"result"}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementRegistered records a pending registration.
func (m *Metrics) IncrementRegistered() {
	if m == nil {
		return
	}
	m.PartnersRegistered.Inc()
}

// IncrementCreated records an admin-authored create.
func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.PartnersCreated.Inc()
}

// IncrementTransition records a status change to status.
func (m *Metrics) IncrementTransition(status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(status).Inc()
}

// IncrementAppend records a gift or memory append.
func (m *Metrics) IncrementAppend(kind string) {
	if m == nil {
		return
	}
	m.Appends.WithLabelValues(kind).Inc()
}

// IncrementRatingRejection records an out-of-range rating.
func (m *Metrics) IncrementRatingRejection() {
	if m == nil {
		return
	}
	m.RatingRejections.Inc()
}

// IncrementLogin records a login attempt with result "success" or "failure".
func (m *Metrics) IncrementLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

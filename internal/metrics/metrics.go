// Package metrics exposes portal counters and the HTTP request histogram.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal's collectors.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal        *prometheus.CounterVec
	RegistrationsTotal *prometheus.CounterVec
	AdminActionsTotal  *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates a private registry with the Go and process collectors plus
// the portal metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the portal metrics on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_logins_total",
				Help: "Login attempts by account kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_registrations_total",
				Help: "Registration attempts by account kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		AdminActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_admin_actions_total",
				Help: "Administrative account mutations by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request latency by route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	reg.MustRegister(m.LoginsTotal, m.RegistrationsTotal, m.AdminActionsTotal, m.RequestDuration)
	return m
}

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// ObserveLogin counts a login attempt. kind may be empty when the login ID
// was rejected before a kind was known.
func (m *Metrics) ObserveLogin(kind string, err error) {
	if kind == "" {
		kind = "unknown"
	}
	m.LoginsTotal.WithLabelValues(kind, outcome(err)).Inc()
}

// ObserveRegistration counts a registration attempt.
func (m *Metrics) ObserveRegistration(kind string, err error) {
	m.RegistrationsTotal.WithLabelValues(kind, outcome(err)).Inc()
}

// ObserveAdminAction counts a status change or deletion.
func (m *Metrics) ObserveAdminAction(action string, err error) {
	m.AdminActionsTotal.WithLabelValues(action, outcome(err)).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency labelled by the matched route
// template, so path parameters do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

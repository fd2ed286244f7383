// Package metrics exposes Prometheus counters for intents, task mutations
// and HTTP requests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry. A nil *Collector is valid and records
// nothing.
type Collector struct {
	registry  *prometheus.Registry
	intents   *prometheus.CounterVec
	mutations *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// New creates a collector with Go runtime and process collectors registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elhem_intents_total",
			Help: "Interpreted commands by role and intent.",
		}, []string{"role", "intent"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elhem_task_mutations_total",
			Help: "Task mutations by action and outcome.",
		}, []string{"action", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elhem_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	c.registry.MustRegister(
		c.intents,
		c.mutations,
		c.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Intent counts one interpreted command.
func (c *Collector) Intent(role, kind string) {
	if c == nil {
		return
	}
	c.intents.WithLabelValues(role, kind).Inc()
}

// TaskMutation counts one create or update attempt.
func (c *Collector) TaskMutation(action, outcome string) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(action, outcome).Inc()
}

// Request counts one served HTTP request.
func (c *Collector) Request(route, code string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(route, code).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

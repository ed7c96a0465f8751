// Package metrics exports request/response counts of a
// [client.Client] to Prometheus, by consuming its log events.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/adamwoolhether/fetchjson/client"
)

// Collector holds the counters fed by [Collector.LogFunc]. It is safe
// for concurrent use.
type Collector struct {
	requestsTotal  *prometheus.CounterVec
	responsesTotal *prometheus.CounterVec
	failuresTotal  *prometheus.CounterVec
}

// New registers the collector's metrics on registry.
func New(registry prometheus.Registerer) *Collector {
	return &Collector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchjson_requests_total",
				Help: "Total number of requests dispatched",
			},
			[]string{"method", "domain"},
		),
		responsesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchjson_responses_total",
				Help: "Total number of responses received",
			},
			[]string{"method", "domain", "status_code"},
		),
		failuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchjson_response_failures_total",
				Help: "Total number of responses with a status outside 200-299",
			},
			[]string{"method", "domain"},
		),
	}
}

// LogFunc returns a [client.LogFunc] recording every event. Combine it
// with other loggers through [client.MultiLogFunc].
func (c *Collector) LogFunc() client.LogFunc {
	return c.record
}

func (c *Collector) record(e client.LogEvent) {
	if c == nil {
		return
	}

	switch e.Direction {
	case client.DirectionRequest:
		c.requestsTotal.WithLabelValues(e.Method, e.Domain).Inc()
	case client.DirectionResponse:
		c.responsesTotal.WithLabelValues(e.Method, e.Domain, strconv.Itoa(e.Status)).Inc()
		if !e.OK {
			c.failuresTotal.WithLabelValues(e.Method, e.Domain).Inc()
		}
	}
}

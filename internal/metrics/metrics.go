// metrics — Prometheus-коллекторы desktop-бэкенда:
// вызовы команд фронтенда и исходящие запросы к REST API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "desktop"

type Metrics struct {
	CommandsTotal      *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
}

// New регистрирует коллекторы в reg (nil — prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		CommandsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Front-end command invocations by command and outcome.",
		}, []string{"command", "outcome"}),
		CommandDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Front-end command latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		APIRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Outbound REST API requests by path and status code.",
		}, []string{"method", "path", "code"}),
		APIRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Outbound REST API latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveCommand безопасен для nil-получателя.
func (m *Metrics) ObserveCommand(command, outcome string, dur time.Duration) {
	if m == nil {
		return
	}

	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(dur.Seconds())
}

// ObserveAPI пишет code="error", если ответа не было (status == 0).
func (m *Metrics) ObserveAPI(method, path string, status int, dur time.Duration) {
	if m == nil {
		return
	}

	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	m.APIRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.APIRequestDuration.WithLabelValues(method, path).Observe(dur.Seconds())
}

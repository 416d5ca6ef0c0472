// Package metrics exposes Prometheus counters for backend traffic, form
// submissions and admin console mutations.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gpsite"

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests issued to the content backend by resource, method and status code.",
		},
		[]string{"resource", "method", "code"},
	)

	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of content backend requests.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"resource", "method"},
	)

	formSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Public form submissions by form and outcome (delivered, unconfirmed, invalid).",
		},
		[]string{"form", "outcome"},
	)

	consoleMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "console_mutations_total",
			Help:      "Admin console mutations by resource, action and result.",
		},
		[]string{"resource", "action", "result"},
	)

	emailDispatch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_dispatch_total",
			Help:      "Transactional email attempts by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendRequests, backendDuration, formSubmissions, consoleMutations, emailDispatch)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveBackend records one backend round trip. code is 0 when no
// response was received.
func ObserveBackend(resource, method string, code int, elapsed time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	backendRequests.WithLabelValues(resource, method, label).Inc()
	backendDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

func IncFormSubmission(form, outcome string) {
	formSubmissions.WithLabelValues(form, outcome).Inc()
}

func IncConsoleMutation(resource, action string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	consoleMutations.WithLabelValues(resource, action, result).Inc()
}

func IncEmailDispatch(ok bool) {
	if ok {
		emailDispatch.WithLabelValues("sent").Inc()
		return
	}
	emailDispatch.WithLabelValues("failed").Inc()
}

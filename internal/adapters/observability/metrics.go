package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flightwatch", Name: "http_requests_total", Help: "HTTP requests served."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flightwatch", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flightwatch", Name: "backend_requests_total", Help: "Requests to the watch backend."},
		[]string{"service", "endpoint", "status"}, // status 0: transport failure
	)
	BackendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flightwatch", Name: "backend_request_duration_seconds",
			Help:    "Watch backend request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	SubmitThrottle = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flightwatch", Name: "submit_throttle_total", Help: "Form submit throttle decisions."},
		[]string{"decision"}, // allow|deny|error
	)
	FormOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flightwatch", Name: "form_submissions_total", Help: "Add-watch form outcomes."},
		[]string{"outcome"}, // created|invalid|rejected|throttled
	)
)

// Serve exposes the default registry on addr in the background. Empty addr
// disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, BackendRequests, BackendLatency, SubmitThrottle, FormOutcomes)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	BackendRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	BackendLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveThrottle(decision string) { SubmitThrottle.WithLabelValues(decision).Inc() }

func ObserveForm(outcome string) { FormOutcomes.WithLabelValues(outcome).Inc() }

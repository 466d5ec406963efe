package gosonar

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "gosonar"

func instrumentRoundTripper(registerer prometheus.Registerer, next http.RoundTripper) (http.RoundTripper, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "requests_total",
		Help:      "Number of requests sent to the SonarQube API, by status code and method.",
	}, []string{"code", "method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the SonarQube API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code", "method"})

	if err := register(registerer, &requests); err != nil {
		return nil, err
	}
	if err := register(registerer, &duration); err != nil {
		return nil, err
	}

	return promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(duration, next)), nil
}

// register tolerates collectors registered by another client on the same registry
func register[T prometheus.Collector](registerer prometheus.Registerer, collector *T) error {
	err := registerer.Register(*collector)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			*collector = existing
			return nil
		}
	}
	return err
}

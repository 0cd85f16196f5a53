package entity

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Logging logs every call at debug level and failures at warn.
func Logging(logger *log.Logger) Middleware {
	return func(ctx context.Context, op Op, next func(context.Context) (bool, error)) (bool, error) {
		start := time.Now()
		ok, err := next(ctx)
		took := time.Since(start)
		switch {
		case err != nil:
			logger.Warn("entity call failed", "op", op, "err", err, "took", took)
		case !ok:
			logger.Warn("entity call unsuccessful", "op", op, "took", took)
		default:
			logger.Debug("entity call", "op", op, "took", took)
		}
		return ok, err
	}
}

// Outcome labels used by Metrics.
const (
	OutcomeOK           = "ok"
	OutcomeUnsuccessful = "unsuccessful"
	OutcomeError        = "error"
)

// Metrics counts calls by op and outcome and records their latency.
// Collectors are registered on reg; registering twice on the same registry panics.
func Metrics(reg prometheus.Registerer) Middleware {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tada",
		Subsystem: "entity",
		Name:      "requests_total",
		Help:      "Entity client calls by operation and outcome.",
	}, []string{"op", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tada",
		Subsystem: "entity",
		Name:      "request_duration_seconds",
		Help:      "Entity client call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(requests, latency)

	return func(ctx context.Context, op Op, next func(context.Context) (bool, error)) (bool, error) {
		timer := prometheus.NewTimer(latency.WithLabelValues(string(op)))
		ok, err := next(ctx)
		timer.ObserveDuration()

		outcome := OutcomeOK
		switch {
		case err != nil:
			outcome = OutcomeError
		case !ok:
			outcome = OutcomeUnsuccessful
		}
		requests.WithLabelValues(string(op), outcome).Inc()
		return ok, err
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	PredictionsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plants",
		Name:      "predictions_stored_total",
		Help:      "Prediction records appended to the history, by health status",
	}, []string{"health_status"})

	FeedbackAttached = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "plants",
		Name:      "feedback_attached_total",
		Help:      "Feedback entries attached (including overwrites)",
	})

	ClassifierDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plants",
		Name:      "classifier_duration_seconds",
		Help:      "Latency of calls to the classification model",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"outcome"})

	StoreOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plants",
		Name:      "store_op_duration_seconds",
		Help:      "Duration of record store operations",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plants",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome mapea un error al label de outcome.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

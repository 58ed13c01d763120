package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// submissionsTotal counts persisted submissions by star rating.
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Total number of persisted feedback submissions.",
		},
		[]string{"rating"},
	)

	// generationFailures counts artifacts that fell back to static text.
	generationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_generation_failures_total",
			Help: "Total number of generation calls replaced by a fallback text.",
		},
		[]string{"artifact"},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, generationFailures)
}

package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_daily_matches_served_total",
			Help: "Total number of daily match recommendations served",
		},
	)

	fallbackActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_local_fallback_total",
			Help: "Times the local scorer ran because the scoring service failed",
		},
		[]string{"operation"},
	)

	gateRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_gate_rejections_total",
			Help: "Daily match requests rejected before scoring",
		},
		[]string{"gate"},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of computed overall compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	matchPercentages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_percentages",
			Help:    "Distribution of importance-weighted match percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

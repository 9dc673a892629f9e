package ai

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/youryharchenko/go-shrdlite/planning"
)

var (
	// searchTotal рахує пошуки за алгоритмом і результатом.
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shrdlite_search_total",
		Help: "Total searches by algorithm and outcome",
	}, []string{"algorithm", "outcome"})

	searchExpanded = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shrdlite_search_expanded_nodes",
		Help:    "Nodes expanded per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 .. ~260k
	}, []string{"algorithm"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shrdlite_search_duration_seconds",
		Help:    "Search wall-clock duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms .. ~26s
	}, []string{"algorithm"})
)

// Outcome - мітка результату пошуку для метрик і логів.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNoSolution):
		return "exhausted"
	}
	return "error"
}

func observeSearch[S planning.State](algorithm string, res *Result[S], err error) {
	searchTotal.WithLabelValues(algorithm, Outcome(err)).Inc()
	searchExpanded.WithLabelValues(algorithm).Observe(float64(res.Expanded))
	searchDuration.WithLabelValues(algorithm).Observe(res.Elapsed.Seconds())
}

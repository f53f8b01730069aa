package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// QuboBuildSeconds tracks model construction time.
	QuboBuildSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "qubo_build_seconds", Help: "QUBO model build time in seconds.", Buckets: prometheus.DefBuckets},
	)
	// SolveSeconds tracks annealing time by strategy and outcome.
	SolveSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solve_seconds", Help: "Annealing solve time in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"strategy", "status"},
	)
	// RepairsTotal counts vehicles whose one-hot group needed greedy repair.
	RepairsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "decode_repairs_total", Help: "Vehicles repaired after one-hot violations."},
	)
	// InfeasibleTotal counts vehicles reported infeasible.
	InfeasibleTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "decode_infeasible_total", Help: "Vehicles reported infeasible."},
	)
	// LastEnergy exposes the best energy of the most recent solve.
	LastEnergy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "solve_best_energy", Help: "Best energy found by the most recent solve."},
		[]string{"strategy"},
	)
)

// RegisterDefault registers all collectors on the registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(QuboBuildSeconds)
		Registry.MustRegister(SolveSeconds)
		Registry.MustRegister(RepairsTotal)
		Registry.MustRegister(InfeasibleTotal)
		Registry.MustRegister(LastEnergy)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

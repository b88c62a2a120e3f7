package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Estimate sources used as the "source" label.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

type Manager struct {
	// counters
	CounterRequests       *prometheus.CounterVec
	CounterEstimates      *prometheus.CounterVec
	CounterWorkoutsLogged prometheus.Counter
	CounterMealsLogged    prometheus.Counter
	CounterGoalsCompleted prometheus.Counter
	CounterRequestPanic   prometheus.Counter

	// gauges
	GaugeRequests       prometheus.Gauge
	GaugeModelAvailable prometheus.Gauge

	// histograms
	HistRequestDuration  prometheus.Histogram
	HistTrainingDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("tracker", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("tracker", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterEstimates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calorie_estimates",
			Help:      "Calorie estimates by source (model or fallback formula)",
		}, []string{"source"}),
		CounterWorkoutsLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workouts_logged",
			Help:      "The total number of logged workouts",
		}),
		CounterMealsLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "meals_logged",
			Help:      "The total number of logged meals",
		}),
		CounterGoalsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "goals_completed",
			Help:      "The total number of goals that reached completion",
		}),
		CounterRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panic",
			Help:      "The total number of serve request panics",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		GaugeModelAvailable: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calorie_model_available",
			Help:      "1 when a trained calorie model is loaded",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		}),
		HistTrainingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.01, 0.1, 1, 10, 60, 120, 300},
			Name:      "model_training_duration_seconds",
			Help:      "Duration of a calorie model training run in seconds",
		}),
	}
}

// ObserveEstimate counts one estimate. A nil manager is a no-op.
func (m *Manager) ObserveEstimate(source string) {
	if m == nil {
		return
	}
	m.CounterEstimates.WithLabelValues(source).Inc()
}

// SetModelAvailable reflects the estimator state. A nil manager is a no-op.
func (m *Manager) SetModelAvailable(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.GaugeModelAvailable.Set(1)
	} else {
		m.GaugeModelAvailable.Set(0)
	}
}

// Package observability holds the Prometheus collectors exported on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsCommitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "workouts",
		Name:      "sessions_committed_total",
		Help:      "Finished workouts saved to history, by workout type.",
	}, []string{"type"})
	draftsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "workouts",
		Name:      "drafts_discarded_total",
		Help:      "Workouts finished without anything saved.",
	})
	setsLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "workouts",
		Name:      "sets_logged_total",
		Help:      "Sets appended to active workouts.",
	})
	sessionsImported = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "import",
		Name:      "sessions_imported_total",
		Help:      "Sessions added from external exports.",
	})
	persistenceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "Swallowed store failures, by operation and key.",
	}, []string{"op", "key"})
)

func init() {
	prometheus.MustRegister(sessionsCommitted, draftsDiscarded, setsLogged, sessionsImported, persistenceFailures)
}

// RecordSessionCommitted counts a saved workout.
func RecordSessionCommitted(workoutType string) {
	sessionsCommitted.WithLabelValues(workoutType).Inc()
}

// RecordDraftDiscarded counts a finish that saved nothing.
func RecordDraftDiscarded() {
	draftsDiscarded.Inc()
}

// RecordSetLogged counts one appended set.
func RecordSetLogged() {
	setsLogged.Inc()
}

// RecordSessionsImported adds n imported sessions.
func RecordSessionsImported(n int) {
	if n <= 0 {
		return
	}
	sessionsImported.Add(float64(n))
}

// RecordPersistenceFailure counts a load or save failure that was swallowed.
func RecordPersistenceFailure(op, key string) {
	persistenceFailures.WithLabelValues(op, key).Inc()
}

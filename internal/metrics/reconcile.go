package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reconciliation states, used as label values for ReconcileState
const (
	StateIdle                 = "idle"
	StateAwaitingConfirmation = "awaiting_confirmation"
	StateCancelled            = "cancelled"
	StateDeleting             = "deleting"
	StateCompleted            = "completed"
	StateFailed               = "failed"
)

var allStates = []string{
	StateIdle,
	StateAwaitingConfirmation,
	StateCancelled,
	StateDeleting,
	StateCompleted,
	StateFailed,
}

// Reconcile subsystem metrics
var (
	// ReconcileDuration tracks how long reconciliations take, confirmation included
	ReconcileDuration prometheus.Histogram

	// ReconcileRunsTotal counts reconciliations by terminal outcome
	ReconcileRunsTotal *prometheus.CounterVec

	// ReconcileCandidates records the orphan count of the last reconciliation
	ReconcileCandidates prometheus.Gauge

	// FoldersDeletedTotal tracks total data folders deleted
	FoldersDeletedTotal prometheus.Counter

	// FolderDeleteErrorsTotal tracks failed folder deletions
	FolderDeleteErrorsTotal prometheus.Counter

	// ReconcileLastRunTimestamp records Unix timestamp of last reconciliation
	ReconcileLastRunTimestamp prometheus.Gauge

	// ReconcileState is 1 for the current state and 0 for the others
	ReconcileState *prometheus.GaugeVec

	stateMutex sync.Mutex
)

// initReconcileMetrics initializes all reconcile subsystem metrics
func initReconcileMetrics() {
	ReconcileDuration = NewDurationHistogram(
		"launchkeep_reconcile_duration_seconds",
		"Duration of data folder reconciliations in seconds.",
	)

	ReconcileRunsTotal = NewCounterVec(
		"launchkeep_reconcile_runs_total",
		"Total reconciliations by outcome (cancelled, completed, failed).",
		[]string{"outcome"},
	)

	ReconcileCandidates = NewGauge(
		"launchkeep_reconcile_candidates",
		"Number of orphaned data folders found by the last reconciliation.",
	)

	FoldersDeletedTotal = NewCounter(
		"launchkeep_folders_deleted_total",
		"Total number of data folders deleted.",
	)

	FolderDeleteErrorsTotal = NewCounter(
		"launchkeep_folder_delete_errors_total",
		"Total number of failed data folder deletions.",
	)

	ReconcileLastRunTimestamp = NewGauge(
		"launchkeep_reconcile_last_run_timestamp",
		"Timestamp of the last reconciliation (Unix epoch seconds).",
	)

	ReconcileState = NewGaugeVec(
		"launchkeep_reconcile_state",
		"Current reconciliation state (1 = active).",
		[]string{"state"},
	)
}

// registerReconcileMetrics registers all reconcile metrics with Prometheus
func registerReconcileMetrics() {
	prometheus.MustRegister(ReconcileDuration)
	prometheus.MustRegister(ReconcileRunsTotal)
	prometheus.MustRegister(ReconcileCandidates)
	prometheus.MustRegister(FoldersDeletedTotal)
	prometheus.MustRegister(FolderDeleteErrorsTotal)
	prometheus.MustRegister(ReconcileLastRunTimestamp)
	prometheus.MustRegister(ReconcileState)
}

// SetReconcileState marks state as the active one
func SetReconcileState(state string) {
	stateMutex.Lock()
	defer stateMutex.Unlock()

	for _, s := range allStates {
		ReconcileState.WithLabelValues(s).Set(0)
	}
	ReconcileState.WithLabelValues(state).Set(1)
}

// RecordReconcileRun updates the last run timestamp to current time
func RecordReconcileRun() {
	ReconcileLastRunTimestamp.Set(float64(time.Now().Unix()))
}

// RecordOutcome counts a finished reconciliation and its duration
func RecordOutcome(outcome string, elapsed time.Duration) {
	ReconcileRunsTotal.WithLabelValues(outcome).Inc()
	ReconcileDuration.Observe(elapsed.Seconds())
}

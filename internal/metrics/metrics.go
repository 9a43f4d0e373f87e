package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var initOnce sync.Once

// Init initializes all metrics subsystems and registers them with Prometheus
// This function is safe to call multiple times (uses sync.Once)
func Init() {
	initOnce.Do(func() {
		initReconcileMetrics()
		initFolderMetrics()

		registerReconcileMetrics()
		registerFolderMetrics()

		// Initialize metrics with default values so they appear in the
		// textfile even before the first reconciliation
		ReconcileLastRunTimestamp.Set(0)
		SetReconcileState(StateIdle)
	})
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// format, for pickup by node_exporter's textfile collector.
// launchkeep is a short-lived CLI, so nothing is served over HTTP.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

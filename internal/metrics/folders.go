package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Data folder inventory metrics
var (
	// ErrorsTotal tracks total errors encountered by launchkeep commands
	ErrorsTotal prometheus.Counter

	// DataFolders tracks data folders on disk by reference status
	DataFolders *prometheus.GaugeVec

	// DataFolderBytes tracks bytes held by data folders by reference status
	DataFolderBytes *prometheus.GaugeVec
)

func initFolderMetrics() {
	ErrorsTotal = NewCounter(
		"launchkeep_errors_total",
		"Total number of errors encountered by launchkeep.",
	)

	DataFolders = NewGaugeVec(
		"launchkeep_data_folders",
		"Number of data folders on disk (status=referenced|orphaned).",
		[]string{"status"},
	)

	DataFolderBytes = NewGaugeVec(
		"launchkeep_data_folder_bytes",
		"Bytes held by data folders on disk (status=referenced|orphaned).",
		[]string{"status"},
	)
}

func registerFolderMetrics() {
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(DataFolders)
	prometheus.MustRegister(DataFolderBytes)
}

// UpdateFolderInventory sets the inventory gauges from a folder listing
func UpdateFolderInventory(referenced, orphaned int, referencedBytes, orphanedBytes int64) {
	DataFolders.WithLabelValues("referenced").Set(float64(referenced))
	DataFolders.WithLabelValues("orphaned").Set(float64(orphaned))
	DataFolderBytes.WithLabelValues("referenced").Set(float64(referencedBytes))
	DataFolderBytes.WithLabelValues("orphaned").Set(float64(orphanedBytes))
}

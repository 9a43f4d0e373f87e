package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetricsInit verifies that Init() is idempotent and registers metrics
func TestMetricsInit(t *testing.T) {
	Init()
	Init()
	Init()

	if ReconcileDuration == nil {
		t.Error("ReconcileDuration should be initialized")
	}
	if ReconcileRunsTotal == nil {
		t.Error("ReconcileRunsTotal should be initialized")
	}
	if FoldersDeletedTotal == nil {
		t.Error("FoldersDeletedTotal should be initialized")
	}
	if ErrorsTotal == nil {
		t.Error("ErrorsTotal should be initialized")
	}

	// Vector metrics only appear once a label value exists
	RecordOutcome("completed", time.Millisecond)
	UpdateFolderInventory(0, 0, 0, 0)

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	expectedMetrics := []string{
		"launchkeep_reconcile_duration_seconds",
		"launchkeep_reconcile_runs_total",
		"launchkeep_reconcile_candidates",
		"launchkeep_folders_deleted_total",
		"launchkeep_folder_delete_errors_total",
		"launchkeep_reconcile_last_run_timestamp",
		"launchkeep_reconcile_state",
		"launchkeep_errors_total",
		"launchkeep_data_folders",
		"launchkeep_data_folder_bytes",
	}

	foundMetrics := make(map[string]bool)
	for _, mf := range mfs {
		foundMetrics[mf.GetName()] = true
	}

	for _, expected := range expectedMetrics {
		if !foundMetrics[expected] {
			t.Errorf("Expected metric %s not found in registry", expected)
		}
	}
}

// TestSetReconcileState verifies exactly one state gauge is set
func TestSetReconcileState(t *testing.T) {
	Init()

	SetReconcileState(StateDeleting)

	for _, s := range allStates {
		want := 0.0
		if s == StateDeleting {
			want = 1
		}
		if got := testutil.ToFloat64(ReconcileState.WithLabelValues(s)); got != want {
			t.Errorf("state %s = %v, expected %v", s, got, want)
		}
	}

	SetReconcileState(StateIdle)
}

// TestRecordOutcomeCounts verifies outcomes are counted per label
func TestRecordOutcomeCounts(t *testing.T) {
	Init()

	before := testutil.ToFloat64(ReconcileRunsTotal.WithLabelValues("cancelled"))
	RecordOutcome("cancelled", 5*time.Millisecond)
	after := testutil.ToFloat64(ReconcileRunsTotal.WithLabelValues("cancelled"))

	if after-before != 1 {
		t.Errorf("expected cancelled counter to grow by 1, grew by %v", after-before)
	}
}

// TestUpdateFolderInventory verifies inventory gauges
func TestUpdateFolderInventory(t *testing.T) {
	Init()

	UpdateFolderInventory(3, 2, 4096, 1024)

	if got := testutil.ToFloat64(DataFolders.WithLabelValues("referenced")); got != 3 {
		t.Errorf("referenced folders = %v", got)
	}
	if got := testutil.ToFloat64(DataFolders.WithLabelValues("orphaned")); got != 2 {
		t.Errorf("orphaned folders = %v", got)
	}
	if got := testutil.ToFloat64(DataFolderBytes.WithLabelValues("orphaned")); got != 1024 {
		t.Errorf("orphaned bytes = %v", got)
	}
}

// TestWriteTextfile verifies the textfile export
func TestWriteTextfile(t *testing.T) {
	Init()

	path := filepath.Join(t.TempDir(), "launchkeep.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "launchkeep_folders_deleted_total") {
		t.Errorf("textfile missing launchkeep metrics")
	}
}

// TestHelperFunctions verifies that helper functions create valid metrics
func TestHelperFunctions(t *testing.T) {
	if NewDurationHistogram("test_duration", "Test duration metric") == nil {
		t.Error("NewDurationHistogram returned nil")
	}
	if NewCounter("test_counter", "Test counter metric") == nil {
		t.Error("NewCounter returned nil")
	}
	if NewGauge("test_gauge", "Test gauge metric") == nil {
		t.Error("NewGauge returned nil")
	}
	if NewCounterVec("test_counter_vec", "Test counter vec", []string{"label"}) == nil {
		t.Error("NewCounterVec returned nil")
	}
	if NewGaugeVec("test_gauge_vec", "Test gauge vec", []string{"label"}) == nil {
		t.Error("NewGaugeVec returned nil")
	}
}

package disk

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.dat"), 100)
	writeFile(t, filepath.Join(root, "nested", "b.dat"), 50)

	stats, err := ScanPath(root)
	if err != nil {
		t.Fatalf("ScanPath failed: %v", err)
	}
	if stats.UsedBytes != 150 || stats.FileCount != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestScanPathMissing(t *testing.T) {
	if _, err := ScanPath(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestScanPathsParallel(t *testing.T) {
	root := t.TempDir()
	one := filepath.Join(root, "one")
	two := filepath.Join(root, "two")
	writeFile(t, filepath.Join(one, "f"), 10)
	writeFile(t, filepath.Join(two, "f"), 20)

	results, err := ScanPathsParallel([]string{one, two, filepath.Join(root, "missing")}, 2)
	if err == nil {
		t.Error("expected error for missing path")
	}
	if results[one] == nil || results[one].UsedBytes != 10 {
		t.Errorf("unexpected result for one: %+v", results[one])
	}
	if results[two] == nil || results[two].UsedBytes != 20 {
		t.Errorf("unexpected result for two: %+v", results[two])
	}
}

func TestVolumeUsage(t *testing.T) {
	u, err := VolumeUsage(t.TempDir())
	if err != nil {
		t.Fatalf("VolumeUsage failed: %v", err)
	}
	if u.TotalBytes == 0 || u.FreeBytes > u.TotalBytes {
		t.Errorf("implausible usage: %+v", u)
	}
	if p := u.UsedPercent(); p < 0 || p > 100 {
		t.Errorf("used percent %v out of range", p)
	}
}

func TestVolumeUsageMissingPath(t *testing.T) {
	if _, err := VolumeUsage(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestUsedPercent(t *testing.T) {
	tests := []struct {
		u    Usage
		want float64
	}{
		{Usage{}, 0},
		{Usage{TotalBytes: 200, FreeBytes: 50}, 75},
		{Usage{TotalBytes: 100, FreeBytes: 100}, 0},
	}
	for _, tt := range tests {
		if got := tt.u.UsedPercent(); got != tt.want {
			t.Errorf("%+v.UsedPercent() = %v, expected %v", tt.u, got, tt.want)
		}
	}
}

package disk

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
)

// PathStats contains usage statistics for a directory tree
type PathStats struct {
	UsedBytes int64 // Total bytes used by regular files below the path
	FileCount int64 // Total number of regular files
}

// ScanPath walks a directory tree and computes its usage. Unreadable entries
// are skipped; symlinks are not followed.
func ScanPath(path string) (*PathStats, error) {
	stats := &PathStats{}

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return err
			}
			return nil // Skip errors below the root
		}

		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			stats.UsedBytes += info.Size()
			stats.FileCount++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// ScanPathsParallel scans multiple paths concurrently with at most workers
// scans in flight
func ScanPathsParallel(paths []string, workers int) (map[string]*PathStats, error) {
	if workers <= 0 {
		workers = 4
	}

	results := make(map[string]*PathStats, len(paths))
	var mu sync.Mutex
	var wg sync.WaitGroup
	errChan := make(chan error, len(paths))
	sem := make(chan struct{}, workers)

	for _, path := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			stats, err := ScanPath(p)
			if err != nil {
				errChan <- fmt.Errorf("scan %s: %w", p, err)
				return
			}

			mu.Lock()
			results[p] = stats
			mu.Unlock()
		}(path)
	}

	wg.Wait()
	close(errChan)

	// Return first error if any
	if err := <-errChan; err != nil {
		return results, err
	}

	return results, nil
}

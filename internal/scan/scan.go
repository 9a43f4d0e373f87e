// Package scan discovers the data folders that exist under the launcher's
// data path.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"launchkeep/internal/disk"
)

// FolderInfo describes one entry directly under the data path
type FolderInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	ModTime   time.Time `json:"mod_time"`
	IsSymlink bool      `json:"is_symlink,omitempty"`
	Size      int64     `json:"size"`
	FileCount int64     `json:"file_count"`
}

// Options controls how much work ListFolders does per folder
type Options struct {
	Sizes   bool // Walk each folder to compute its size
	Workers int  // Concurrent size scans, 0 for the default
}

// ListFolders returns the directories and symlinks directly under dataPath,
// sorted by name. Regular files and hidden entries are ignored. A missing
// dataPath yields no folders.
func ListFolders(dataPath string, opts Options) ([]FolderInfo, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data path %s: %w", dataPath, err)
	}

	folders := make([]FolderInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == "" || name[0] == '.' {
			continue
		}
		isLink := entry.Type()&fs.ModeSymlink != 0
		if !entry.IsDir() && !isLink {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}

		folders = append(folders, FolderInfo{
			Name:      name,
			Path:      filepath.Join(dataPath, name),
			ModTime:   info.ModTime(),
			IsSymlink: isLink,
		})
	}

	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})

	if opts.Sizes {
		fillSizes(folders, opts.Workers)
	}

	return folders, nil
}

// fillSizes computes sizes for real directories; symlinks keep size 0 and
// folders that fail to scan are left as they are.
func fillSizes(folders []FolderInfo, workers int) {
	paths := make([]string, 0, len(folders))
	for _, f := range folders {
		if !f.IsSymlink {
			paths = append(paths, f.Path)
		}
	}

	stats, _ := disk.ScanPathsParallel(paths, workers)
	for i := range folders {
		if s, ok := stats[folders[i].Path]; ok {
			folders[i].Size = s.UsedBytes
			folders[i].FileCount = s.FileCount
		}
	}
}

// FolderNames returns the sorted names of the data folders under dataPath
func FolderNames(dataPath string) ([]string, error) {
	folders, err := ListFolders(dataPath, Options{})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = f.Name
	}
	return names, nil
}

// TotalSize sums the sizes of folders
func TotalSize(folders []FolderInfo) int64 {
	var total int64
	for _, f := range folders {
		total += f.Size
	}
	return total
}

package disk

import (
	"fmt"
	"syscall"
)

// Usage describes the volume holding the data path
type Usage struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// UsedPercent is the share of the volume that is not available to the user
func (u Usage) UsedPercent() float64 {
	if u.TotalBytes == 0 {
		return 0
	}
	return float64(u.TotalBytes-u.FreeBytes) / float64(u.TotalBytes) * 100
}

// VolumeUsage reports the capacity of the volume containing path. Free space
// counts only blocks available to unprivileged users.
func VolumeUsage(path string) (Usage, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return Usage{}, fmt.Errorf("statfs %s: %w", path, err)
	}

	bsize := uint64(stat.Bsize)
	u := Usage{
		TotalBytes: uint64(stat.Blocks) * bsize,
		FreeBytes:  uint64(stat.Bavail) * bsize,
	}
	if u.FreeBytes > u.TotalBytes {
		u.FreeBytes = u.TotalBytes
	}
	return u, nil
}

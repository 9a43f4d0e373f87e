package fsops

import (
	"errors"
	"fmt"
	"os"

	"launchkeep/internal/safety"
)

// ErrNotFolder is returned when a data folder name points at something other
// than a directory or a symlink
var ErrNotFolder = errors.New("not a folder")

// FolderDeleter removes named data folders under the validator's root
type FolderDeleter struct {
	validator *safety.Validator
	deleter   Deleter
	lstat     func(string) (os.FileInfo, error)
}

// NewFolderDeleter creates a FolderDeleter. A nil deleter uses OSDeleter.
func NewFolderDeleter(v *safety.Validator, d Deleter) *FolderDeleter {
	if d == nil {
		d = OSDeleter{}
	}
	return &FolderDeleter{validator: v, deleter: d, lstat: os.Lstat}
}

// DeleteFolder removes the data folder called name.
// A folder that is already gone is an error: os.RemoveAll alone would report
// success for it.
func (f *FolderDeleter) DeleteFolder(name string) error {
	path, err := f.validator.ResolveFolder(name)
	if err != nil {
		return fmt.Errorf("validate folder %q: %w", name, err)
	}

	info, err := f.lstat(path)
	if err != nil {
		return fmt.Errorf("stat folder %s: %w", path, err)
	}
	if !info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%w: %s", ErrNotFolder, path)
	}

	if err := f.deleter.RemoveAll(path); err != nil {
		return fmt.Errorf("remove folder %s: %w", path, err)
	}
	return nil
}

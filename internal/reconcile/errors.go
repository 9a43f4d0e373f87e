package reconcile

import (
	"errors"
	"fmt"
)

// ErrFilesystem matches any *FilesystemError via errors.Is
var ErrFilesystem = errors.New("filesystem error")

// FilesystemError reports the folder whose deletion stopped a reconciliation.
// Folders deleted before it stay deleted and are already gone from the
// FolderSet.
type FilesystemError struct {
	Folder         string
	PartialDeleted int
	Err            error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("delete data folder %q (after %d deleted): %v", e.Folder, e.PartialDeleted, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

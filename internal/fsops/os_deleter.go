package fsops

import "os"

// OSDeleter implements Deleter with os.RemoveAll. Symlinks are removed, not
// followed.
type OSDeleter struct{}

func (OSDeleter) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

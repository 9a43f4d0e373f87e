package fsops

// Deleter removes a folder tree. Swapped for FakeDeleter in tests to prove
// which folders were removed.
type Deleter interface {
	RemoveAll(path string) error
}

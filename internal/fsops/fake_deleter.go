package fsops

import "fmt"

// FakeDeleter implements Deleter for testing
// Records all delete calls without performing actual deletions.
// Paths listed in Fail return an error instead of being recorded as removed.
type FakeDeleter struct {
	Calls []string
	Fail  map[string]error
}

func (f *FakeDeleter) RemoveAll(path string) error {
	f.Calls = append(f.Calls, "rmall:"+path)
	return f.failure(path)
}

func (f *FakeDeleter) failure(path string) error {
	if err, ok := f.Fail[path]; ok {
		if err == nil {
			err = fmt.Errorf("fake failure removing %s", path)
		}
		return err
	}
	return nil
}

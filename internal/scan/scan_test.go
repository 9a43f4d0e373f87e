package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func setupDataPath(t *testing.T) string {
	t.Helper()
	dataPath := filepath.Join(t.TempDir(), "Data")

	for _, dir := range []string{"B", "A", ".hidden"} {
		if err := os.MkdirAll(filepath.Join(dataPath, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dataPath, "A", "save.dat"), make([]byte, 64), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataPath, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(filepath.Join(dataPath, "A"), filepath.Join(dataPath, "C")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	return dataPath
}

func TestListFolders(t *testing.T) {
	dataPath := setupDataPath(t)

	folders, err := ListFolders(dataPath, Options{Sizes: true, Workers: 2})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}

	var names []string
	for _, f := range folders {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"A", "B", "C"}) {
		t.Fatalf("folders = %v, expected [A B C]", names)
	}

	if folders[0].Size != 64 || folders[0].FileCount != 1 {
		t.Errorf("A size = %d files = %d", folders[0].Size, folders[0].FileCount)
	}
	if folders[1].Size != 0 {
		t.Errorf("B size = %d", folders[1].Size)
	}
	if !folders[2].IsSymlink || folders[2].Size != 0 {
		t.Errorf("C should be an unsized symlink: %+v", folders[2])
	}
	if TotalSize(folders) != 64 {
		t.Errorf("TotalSize = %d", TotalSize(folders))
	}
}

func TestListFoldersWithoutSizes(t *testing.T) {
	dataPath := setupDataPath(t)

	folders, err := ListFolders(dataPath, Options{})
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	for _, f := range folders {
		if f.Size != 0 {
			t.Errorf("%s sized without Options.Sizes", f.Name)
		}
	}
}

func TestListFoldersMissingDataPath(t *testing.T) {
	folders, err := ListFolders(filepath.Join(t.TempDir(), "missing"), Options{})
	if err != nil {
		t.Fatalf("missing data path should not fail: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("expected no folders, got %v", folders)
	}
}

func TestFolderNames(t *testing.T) {
	names, err := FolderNames(setupDataPath(t))
	if err != nil {
		t.Fatalf("FolderNames failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"A", "B", "C"}) {
		t.Errorf("names = %v", names)
	}
}

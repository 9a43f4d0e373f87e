package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "apps.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(r.Apps()) != 0 {
		t.Errorf("expected empty registry, got %v", r.Apps())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(r.Apps()) != 0 {
		t.Errorf("expected empty registry, got %v", r.Apps())
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.yaml")
	if err := os.WriteFile(path, []byte("apps: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAddSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "apps.yaml")
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := r.Add(App{ID: "com.example.game", Name: "Game", DataFolder: "ABC"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.Add(App{ID: "com.example.notes", Name: "Notes"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	apps := reloaded.Apps()
	if len(apps) != 2 {
		t.Fatalf("expected 2 apps, got %d", len(apps))
	}
	if name, ok := apps[0].DataFolderName(); !ok || name != "ABC" {
		t.Errorf("first app folder = %q %v", name, ok)
	}
	if _, ok := apps[1].DataFolderName(); ok {
		t.Errorf("second app should have no folder")
	}
}

func TestAddValidation(t *testing.T) {
	r := &Registry{}
	if err := r.Add(App{ID: "  "}); !errors.Is(err, ErrInvalidApp) {
		t.Errorf("expected ErrInvalidApp, got %v", err)
	}
	if err := r.Add(App{ID: "a"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.Add(App{ID: "a"}); !errors.Is(err, ErrDuplicateApp) {
		t.Errorf("expected ErrDuplicateApp, got %v", err)
	}
}

func TestAssignDataFolder(t *testing.T) {
	r := &Registry{}
	if err := r.Add(App{ID: "a"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	first, err := r.AssignDataFolder("a")
	if err != nil {
		t.Fatalf("AssignDataFolder failed: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("assigned folder %q is not a uuid: %v", first, err)
	}

	second, err := r.AssignDataFolder("a")
	if err != nil || second != first {
		t.Errorf("AssignDataFolder must be idempotent: %q then %q (%v)", first, second, err)
	}

	if _, err := r.AssignDataFolder("missing"); !errors.Is(err, ErrAppNotFound) {
		t.Errorf("expected ErrAppNotFound, got %v", err)
	}
}

func TestAppsReturnsCopy(t *testing.T) {
	r := &Registry{}
	_ = r.Add(App{ID: "a", DataFolder: "X"})

	apps := r.Apps()
	apps[0].DataFolder = "changed"

	got, _ := r.Get("a")
	if got.DataFolder != "X" {
		t.Errorf("registry mutated through Apps(): %+v", got)
	}
}

package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *s != (Settings{}) {
		t.Errorf("expected all-false defaults, got %+v", s)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	s := &Settings{}
	if err := s.Set("frame_shortcut_icons", true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("load_tweaks_to_self", true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Settings{FrameShortcutIcons: true, LoadTweaksToSelf: true}
	if *loaded != want {
		t.Errorf("loaded %+v, expected %+v", loaded, want)
	}

	v, err := loaded.Get("frame_shortcut_icons")
	if err != nil || !v {
		t.Errorf("Get = %v, %v", v, err)
	}
}

func TestUnknownKey(t *testing.T) {
	s := &Settings{}
	if err := s.Set("dark_mode", true); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set: expected ErrUnknownKey, got %v", err)
	}
	if _, err := s.Get("dark_mode"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get: expected ErrUnknownKey, got %v", err)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("dark_mode: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error for unknown field")
	}
}

func TestKeys(t *testing.T) {
	want := []string{
		"frame_shortcut_icons",
		"ignore_alt_certificate",
		"load_tweaks_to_self",
		"switch_app_without_asking",
	}
	if got := Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v", got)
	}
}

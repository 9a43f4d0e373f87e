// Package settings persists the launcher's user preferences.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dchest/safefile"
	"gopkg.in/yaml.v3"
)

var ErrUnknownKey = errors.New("unknown setting")

// Settings are the user preferences. All default to false.
type Settings struct {
	IgnoreAltCertificate   bool `yaml:"ignore_alt_certificate" json:"ignore_alt_certificate"`
	FrameShortcutIcons     bool `yaml:"frame_shortcut_icons" json:"frame_shortcut_icons"`
	SwitchAppWithoutAsking bool `yaml:"switch_app_without_asking" json:"switch_app_without_asking"`
	LoadTweaksToSelf       bool `yaml:"load_tweaks_to_self" json:"load_tweaks_to_self"`
}

func (s *Settings) fields() map[string]*bool {
	return map[string]*bool{
		"ignore_alt_certificate":    &s.IgnoreAltCertificate,
		"frame_shortcut_icons":      &s.FrameShortcutIcons,
		"switch_app_without_asking": &s.SwitchAppWithoutAsking,
		"load_tweaks_to_self":       &s.LoadTweaksToSelf,
	}
}

// Keys returns the setting names in sorted order
func Keys() []string {
	var s Settings
	keys := make([]string, 0, 4)
	for k := range s.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of the named setting
func (s *Settings) Get(key string) (bool, error) {
	p, ok := s.fields()[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return *p, nil
}

// Set changes the named setting
func (s *Settings) Set(key string, value bool) error {
	p, ok := s.fields()[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	*p = value
	return nil
}

// Load reads settings from path. A missing or empty file yields defaults.
func Load(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path atomically
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create folder for settings: %w", err)
	}

	f, err := safefile.Create(path, 0o644)
	if err != nil {
		return fmt.Errorf("create settings file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return f.Commit()
}

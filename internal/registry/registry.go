package registry

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dchest/safefile"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	ErrAppNotFound  = errors.New("app not found")
	ErrDuplicateApp = errors.New("app already registered")
	ErrInvalidApp   = errors.New("app id must not be empty")
)

// App is a registered app. DataFolder is empty until the app first needs
// persistent storage.
type App struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	BundleID   string `yaml:"bundle_id,omitempty" json:"bundle_id,omitempty"`
	DataFolder string `yaml:"data_folder,omitempty" json:"data_folder,omitempty"`
}

// DataFolderName returns the assigned data folder without assigning one
func (a App) DataFolderName() (string, bool) {
	name := strings.TrimSpace(a.DataFolder)
	return name, name != ""
}

type manifest struct {
	Apps []App `yaml:"apps"`
}

// Registry is the app manifest stored at a YAML file
type Registry struct {
	path string
	apps []App
}

// Load reads the manifest at path. A missing file is an empty registry.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read app registry: %w", err)
	}

	var m manifest
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil && len(bytes.TrimSpace(data)) > 0 {
		return nil, fmt.Errorf("decode app registry %s: %w", path, err)
	}
	r.apps = m.Apps
	return r, nil
}

// Save writes the manifest atomically
func (r *Registry) Save() error {
	data, err := yaml.Marshal(manifest{Apps: r.apps})
	if err != nil {
		return fmt.Errorf("encode app registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create folder for app registry: %w", err)
	}

	f, err := safefile.Create(r.path, 0o644)
	if err != nil {
		return fmt.Errorf("create app registry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write app registry file: %w", err)
	}
	if err := f.Commit(); err != nil {
		return fmt.Errorf("commit app registry file: %w", err)
	}
	return nil
}

// Apps returns a copy of the registered apps
func (r *Registry) Apps() []App {
	return append([]App(nil), r.apps...)
}

// Get looks up an app by id
func (r *Registry) Get(id string) (App, bool) {
	for _, a := range r.apps {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}

// Add registers a new app
func (r *Registry) Add(app App) error {
	app.ID = strings.TrimSpace(app.ID)
	if app.ID == "" {
		return ErrInvalidApp
	}
	if _, ok := r.Get(app.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateApp, app.ID)
	}
	r.apps = append(r.apps, app)
	return nil
}

// AssignDataFolder gives the app a generated data folder name if it has none
// and returns the app's folder name
func (r *Registry) AssignDataFolder(id string) (string, error) {
	for i := range r.apps {
		if r.apps[i].ID != id {
			continue
		}
		if name, ok := r.apps[i].DataFolderName(); ok {
			return name, nil
		}
		r.apps[i].DataFolder = strings.ToUpper(uuid.NewString())
		return r.apps[i].DataFolder, nil
	}
	return "", fmt.Errorf("%w: %s", ErrAppNotFound, id)
}

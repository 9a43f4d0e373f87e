package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidName   = errors.New("invalid folder name")
	ErrInvalidPath   = errors.New("invalid path")
	ErrProtectedPath = errors.New("protected path")
	ErrOutsideRoot   = errors.New("outside data root")
	ErrTraversal     = errors.New("path traversal detected")
	ErrSymlinkEscape = errors.New("symlink escape detected")
)

// Validator enforces the safety contract for data folder deletion
type Validator struct {
	Root           string
	ProtectedPaths []string
}

// NewValidator creates a validator for folders directly under root plus
// optional additional protected paths
func NewValidator(root string, extraProtected []string) *Validator {
	r, err := NormalizePath(root)
	if err != nil {
		r = ""
	}
	return &Validator{
		Root:           r,
		ProtectedPaths: defaultProtected(extraProtected),
	}
}

// ValidateFolderName rejects anything that is not a single path element
func ValidateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if name == "." || name == ".." {
		return ErrTraversal
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return ErrInvalidName
	}
	if strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}

// ResolveFolder is the single source of truth for delete authorization.
// It returns the absolute path of the named data folder, or a typed error.
func (v *Validator) ResolveFolder(name string) (string, error) {
	if err := ValidateFolderName(name); err != nil {
		return "", err
	}
	if v.Root == "" {
		return "", ErrInvalidPath
	}

	p := filepath.Join(v.Root, name)

	if IsProtectedPath(p, v.ProtectedPaths) {
		return "", ErrProtectedPath
	}

	// The root itself is never a deletable folder
	if p == v.Root || !IsWithinRoot(p, v.Root) {
		return "", ErrOutsideRoot
	}

	escaped, err := DetectSymlinkEscape(p, v.Root)
	if err != nil {
		// A missing folder is reported by the deleter, not here
		if os.IsNotExist(err) {
			return p, nil
		}
		return "", err
	}
	if escaped {
		return "", ErrSymlinkEscape
	}

	return p, nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// IsWithinRoot checks if path is root or below it
func IsWithinRoot(path, root string) bool {
	return hasPathPrefix(filepath.Clean(path), root)
}

// DetectSymlinkEscape resolves symlinks on both the folder and the root and
// reports whether the folder lands outside the root
func DetectSymlinkEscape(cleanAbs, root string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(cleanAbs)
	if err != nil {
		return false, err
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false, err
	}
	return !hasPathPrefix(resolved, resolvedRoot), nil
}

// IsProtectedPath checks if path matches protected system paths
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)

	// Hard block: "/" exact
	if p == string(os.PathSeparator) {
		return true
	}

	for _, prot := range protected {
		prot = filepath.Clean(prot)
		if p == prot || hasPathPrefix(p, prot) {
			return true
		}
	}
	return false
}

func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)

	if prefix == string(os.PathSeparator) {
		return path == "/"
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

// defaultProtected returns the base set of protected paths plus any extras
func defaultProtected(extra []string) []string {
	base := []string{
		"/",
		"/etc",
		"/bin",
		"/usr",
		"/boot",
		"/lib",
		"/lib64",
		"/sbin",
	}
	return append(base, extra...)
}

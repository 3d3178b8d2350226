package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves import paths to source files on disk.
//
// An import path is tried relative to the importing file first. When its
// first segment names a package, the rest is resolved inside that package's
// root. Otherwise each search path is tried in order.
type Loader struct {
	SearchPaths []string
	Packages    map[string]string
}

// NewLoader returns a loader that falls back to the given search paths.
func NewLoader(searchPaths ...string) *Loader {
	return &Loader{SearchPaths: searchPaths, Packages: map[string]string{}}
}

// ForManifest builds a loader from a manifest and its (possibly nil)
// lockfile.
func ForManifest(m *Manifest, lock *Lockfile) *Loader {
	return &Loader{SearchPaths: m.SearchPaths(lock), Packages: m.PackageRoots(lock)}
}

// Resolve returns the absolute path of the file that path names when
// imported from the unit from. The .helix extension is added when missing.
func (l *Loader) Resolve(from, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty import path")
	}
	if filepath.Ext(path) == "" {
		path += SourceExt
	}
	candidates := l.candidates(from, filepath.FromSlash(path))
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", fmt.Errorf("%s not found (searched %s)", path, strings.Join(candidates, ", "))
}

func (l *Loader) candidates(from, path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	dir := "."
	if from != "" {
		dir = filepath.Dir(from)
	}
	out := []string{filepath.Join(dir, path)}
	if pkg, rest, ok := strings.Cut(filepath.ToSlash(path), "/"); ok {
		if root, found := l.Packages[pkg]; found {
			out = append(out, filepath.Join(root, filepath.FromSlash(rest)))
		}
	}
	for _, sp := range l.SearchPaths {
		out = append(out, filepath.Join(sp, path))
	}
	return out
}

// Load reads the source of a resolved unit.
func (l *Loader) Load(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

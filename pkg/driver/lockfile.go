package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Lockfile models the helix.lock contents: the exact revision and install
// location of every dependency.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Packages  []*LockedPackage
}

// LockedPackage captures a single resolved dependency.
type LockedPackage struct {
	Name    string
	Version string
	Source  string
	Path    string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeName(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packages:  []*LockedPackage{},
	}
}

// Find returns the locked package called name, or nil. A nil lockfile has
// no packages.
func (l *Lockfile) Find(name string) *LockedPackage {
	if l == nil {
		return nil
	}
	for _, pkg := range l.Packages {
		if pkg != nil && pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Put adds pkg, replacing any existing entry with the same name.
func (l *Lockfile) Put(pkg *LockedPackage) {
	l.Packages = slices.DeleteFunc(l.Packages, func(p *LockedPackage) bool {
		return p == nil || p.Name == pkg.Name
	})
	l.Packages = append(l.Packages, pkg)
	l.normalize()
}

// LoadLockfile parses helix.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile to path, or to lock.Path when path
// is empty.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

func (l *Lockfile) normalize() {
	l.Root = sanitizeName(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	l.Packages = slices.DeleteFunc(l.Packages, func(p *LockedPackage) bool { return p == nil })
	for _, pkg := range l.Packages {
		pkg.Name = strings.TrimSpace(pkg.Name)
		pkg.Version = strings.TrimSpace(pkg.Version)
		pkg.Source = strings.TrimSpace(pkg.Source)
		pkg.Path = strings.TrimSpace(pkg.Path)
	}
	slices.SortStableFunc(l.Packages, func(a, b *LockedPackage) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func (l *Lockfile) toDisk() lockfileDisk {
	pkgs := make([]lockfilePackage, 0, len(l.Packages))
	for _, pkg := range l.Packages {
		pkgs = append(pkgs, lockfilePackage(*pkg))
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Packages:  pkgs,
	}
}

type lockfileDisk struct {
	Root      string            `yaml:"root"`
	Generated string            `yaml:"generated"`
	Tool      string            `yaml:"tool"`
	Packages  []lockfilePackage `yaml:"packages"`
}

type lockfilePackage struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
	Path    string `yaml:"path"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Packages:  make([]*LockedPackage, 0, len(d.Packages)),
	}
	for _, pkg := range d.Packages {
		locked := LockedPackage(pkg)
		lock.Packages = append(lock.Packages, &locked)
	}
	lock.normalize()
	return lock
}

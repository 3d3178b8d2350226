package driver

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ManifestFileName = "helix.yml"
	LockfileName     = "helix.lock"
	SourceExt        = ".helix"
)

// ErrManifestNotFound is returned by FindManifest when no helix.yml exists
// in the directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: helix.yml not found")

// Manifest represents the parsed contents of helix.yml.
type Manifest struct {
	Path         string
	Dir          string
	Name         string
	Version      string
	Entry        string
	Paths        []string
	MaxCallDepth int
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a dependency's sources come from. Exactly
// one of Git or Path is set.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses helix.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from dir towards the filesystem root and returns the
// path of the first helix.yml it meets.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(current, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry != "" && filepath.Ext(m.Entry) != SourceExt {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be a %s file", m.Entry, SourceExt))
	}
	if m.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "max_call_depth must not be negative")
	}
	for _, name := range slices.Sorted(maps.Keys(m.Dependencies)) {
		dep := m.Dependencies[name]
		if dep == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: must specify git or path", name))
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	switch {
	case d.Git == "" && d.Path == "":
		errs = append(errs, "must specify git or path")
	case d.Git != "" && d.Path != "":
		errs = append(errs, "path dependencies cannot also specify git")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "only one of rev, tag or branch may be given")
	}
	if pins > 0 && d.Git == "" {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	return errs
}

// IsGit reports whether the dependency is fetched from a git repository.
func (d *DependencySpec) IsGit() bool { return d != nil && d.Git != "" }

// SearchPaths lists the directories imports fall back to: the manifest's
// directory, its configured paths, then each dependency root in name order.
func (m *Manifest) SearchPaths(lock *Lockfile) []string {
	paths := []string{m.Dir}
	for _, p := range m.Paths {
		paths = append(paths, m.resolve(p))
	}
	roots := m.PackageRoots(lock)
	for _, name := range slices.Sorted(maps.Keys(roots)) {
		paths = append(paths, roots[name])
	}
	return paths
}

// PackageRoots maps each dependency name to the directory holding its
// sources. Git dependencies are located through the lockfile; ones that
// have not been installed yet are left out.
func (m *Manifest) PackageRoots(lock *Lockfile) map[string]string {
	roots := make(map[string]string, len(m.Dependencies))
	for name, dep := range m.Dependencies {
		if dep == nil {
			continue
		}
		if dep.Path != "" {
			roots[name] = m.resolve(dep.Path)
			continue
		}
		if pkg := lock.Find(name); pkg != nil && pkg.Path != "" {
			roots[name] = pkg.Path
		}
	}
	return roots
}

// EntryPath returns the absolute path of the manifest's entry file.
func (m *Manifest) EntryPath() (string, error) {
	if m.Entry == "" {
		return "", fmt.Errorf("manifest: %s has no entry", m.Path)
	}
	return m.resolve(m.Entry), nil
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Dir, p)
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Entry        string        `yaml:"entry"`
	Paths        stringList    `yaml:"paths"`
	MaxCallDepth int           `yaml:"max_call_depth"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	deps := make(map[string]*DependencySpec, len(mf.Dependencies))
	for name, dep := range mf.Dependencies {
		if dep == nil {
			deps[name] = nil
			continue
		}
		copy := *dep
		deps[name] = &copy
	}
	return &Manifest{
		Path:         path,
		Dir:          filepath.Dir(path),
		Name:         sanitizeName(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Entry:        strings.TrimSpace(mf.Entry),
		Paths:        mf.Paths.Clone(),
		MaxCallDepth: mf.MaxCallDepth,
		Dependencies: deps,
	}
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			if str = strings.TrimSpace(str); str != "" {
				items = append(items, str)
			}
		}
		*l = items
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		dep, err := decodeDependency(value.Content[i+1])
		if err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = dep
	}
	*dm = result
	return nil
}

// decodeDependency accepts either a mapping or a scalar shorthand. A scalar
// that looks like a URL is a git source; anything else is a local path.
func decodeDependency(value *yaml.Node) (*DependencySpec, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		s := strings.TrimSpace(value.Value)
		if value.Tag == "!!null" || s == "" {
			return nil, nil
		}
		if strings.Contains(s, "://") || strings.HasSuffix(s, ".git") || strings.HasPrefix(s, "git@") {
			return &DependencySpec{Git: s}, nil
		}
		return &DependencySpec{Path: s}, nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return nil, err
		}
		return &DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}, nil
	case yaml.AliasNode:
		return decodeDependency(value.Alias)
	default:
		return nil, fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

// sanitizeName lowercases a package name and replaces anything outside
// [a-z0-9_] with an underscore.
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
}

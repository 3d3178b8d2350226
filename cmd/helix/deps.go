package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arjpeg/helix/pkg/driver"
)

func runDeps(args []string) int {
	verbose, update := false, false
	for _, arg := range args {
		switch arg {
		case "--verbose", "-v":
			verbose = true
		case "--update":
			update = true
		default:
			fmt.Fprintf(os.Stderr, "unknown deps argument %q\n", arg)
			return 1
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load %s: %v\n", driver.ManifestFileName, err)
		return 1
	}
	cacheDir, err := resolveHelixHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve HELIX_HOME: %v\n", err)
		return 1
	}

	logger := newLogger(verbose)
	logger.Info("resolving dependencies",
		"manifest", manifest.Path,
		"package", manifest.Name,
		"dependencies", len(manifest.Dependencies),
		"cache", cacheDir)

	lockPath := filepath.Join(manifest.Dir, driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	if update {
		lock.Packages = nil
	}
	lock.Tool = cliToolVersion

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	installer := newDependencyInstaller(manifest, cacheDir, logger)
	changed, err := installer.Install(ctx, lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}

	if changed || lockCreated || update {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lockPath)
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func resolveHelixHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("HELIX_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve HELIX_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".helix"), nil
}

// dependencyInstaller brings a lockfile in line with a manifest's direct
// dependencies. Dependencies of dependencies are not followed.
type dependencyInstaller struct {
	manifest *driver.Manifest
	git      *gitFetcher
	logger   *slog.Logger
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string, logger *slog.Logger) *dependencyInstaller {
	if logger == nil {
		logger = newLogger(false)
	}
	return &dependencyInstaller{
		manifest: manifest,
		git:      newGitFetcher(cacheDir),
		logger:   logger,
	}
}

// Install resolves every declared dependency into lock and drops entries
// the manifest no longer declares. It reports whether lock changed.
func (d *dependencyInstaller) Install(ctx context.Context, lock *driver.Lockfile) (bool, error) {
	changed := false
	roots := d.manifest.PackageRoots(nil)
	for _, name := range slices.Sorted(maps.Keys(d.manifest.Dependencies)) {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		spec := d.manifest.Dependencies[name]
		locked := lock.Find(name)

		var pkg *driver.LockedPackage
		var err error
		switch {
		case spec.IsGit() && lockedGitMatches(locked, spec):
			d.logger.Info("using locked dependency", "name", name, "version", locked.Version)
			continue
		case spec.IsGit():
			d.logger.Info("fetching git dependency", "name", name, "url", spec.Git)
			pkg, err = d.git.Fetch(ctx, name, spec)
		default:
			pkg, err = installPath(name, roots[name])
		}
		if err != nil {
			return changed, fmt.Errorf("dependency %q: %w", name, err)
		}
		if locked != nil && *locked == *pkg {
			continue
		}
		d.logger.Info("locked dependency", "name", pkg.Name, "version", pkg.Version, "source", pkg.Source)
		lock.Put(pkg)
		changed = true
	}

	before := len(lock.Packages)
	lock.Packages = slices.DeleteFunc(lock.Packages, func(pkg *driver.LockedPackage) bool {
		if _, declared := d.manifest.Dependencies[pkg.Name]; declared {
			return false
		}
		d.logger.Info("removing stale dependency", "name", pkg.Name)
		return true
	})
	return changed || len(lock.Packages) != before, nil
}

// installPath records a local directory dependency. Its version comes from
// the directory's own helix.yml when it has one.
func installPath(name, root string) (*driver.LockedPackage, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	version := "0.0.0"
	if m, err := driver.LoadManifest(filepath.Join(root, driver.ManifestFileName)); err == nil && m.Version != "" {
		version = m.Version
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return &driver.LockedPackage{
		Name:    name,
		Version: version,
		Source:  "path:" + root,
		Path:    root,
	}, nil
}

// lockedGitMatches reports whether a locked git package still satisfies
// spec and is present on disk, so it can be reused without fetching.
func lockedGitMatches(locked *driver.LockedPackage, spec *driver.DependencySpec) bool {
	if locked == nil || locked.Path == "" {
		return false
	}
	commit, ok := strings.CutPrefix(locked.Source, "git+"+spec.Git+"@")
	if !ok {
		return false
	}
	if _, err := os.Stat(locked.Path); err != nil {
		return false
	}
	_, descriptor := gitDescriptor(spec)
	if spec.Rev != "" {
		return strings.HasPrefix(commit, spec.Rev)
	}
	return locked.Version == gitPinnedVersion(descriptor, commit)
}

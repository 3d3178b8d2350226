package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/arjpeg/helix/pkg/driver"
	"github.com/arjpeg/helix/pkg/interpreter"
	"github.com/arjpeg/helix/pkg/runtime"
	"github.com/arjpeg/helix/pkg/source"
)

const cliToolVersion = "helix 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	var entry string
	var manifest *driver.Manifest
	if len(args) == 0 {
		m, err := loadManifestFrom(".")
		if errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "helix run requires a source file (%s not found)\n", driver.ManifestFileName)
			return 1
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return 1
		}
		if entry, err = m.EntryPath(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		manifest = m
	} else {
		entry = strings.TrimSpace(args[0])
		m, err := loadManifestFrom(entry)
		switch {
		case err == nil:
			manifest = m
		case !errors.Is(err, driver.ErrManifestNotFound):
			fmt.Fprintf(os.Stderr, "failed to read manifest for %s: %v\n", entry, err)
			return 1
		}
	}

	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return executeEntry(ctx, entry, manifest, lock)
}

func executeEntry(ctx context.Context, entry string, manifest *driver.Manifest, lock *driver.Lockfile) int {
	if entry == "" {
		fmt.Fprintln(os.Stderr, "helix run requires a source file")
		return 1
	}
	data, err := os.ReadFile(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", entry, err)
		return 1
	}
	src := string(data)

	interp := interpreter.New(interpreterOptions(manifest, lock)...)
	val, err := interp.EvaluateSource(ctx, entry, src)
	if err != nil {
		reportError(os.Stderr, err, entry, src)
		return 1
	}
	if val != runtime.Null {
		fmt.Fprintln(os.Stdout, runtime.Inspect(val))
	}
	return 0
}

// interpreterOptions wires the manifest's search paths and call depth into
// a new interpreter. Without a manifest imports resolve against the working
// directory only.
func interpreterOptions(manifest *driver.Manifest, lock *driver.Lockfile) []interpreter.Option {
	opts := []interpreter.Option{
		interpreter.WithStdout(os.Stdout),
		interpreter.WithStdin(os.Stdin),
	}
	if manifest == nil {
		return append(opts, interpreter.WithLoader(driver.NewLoader(".")))
	}
	return append(opts,
		interpreter.WithLoader(driver.ForManifest(manifest, lock)),
		interpreter.WithMaxCallDepth(manifest.MaxCallDepth),
	)
}

// reportError prints err as a caret snippet. Runtime errors carry their
// call trace in the message.
func reportError(w io.Writer, err error, name, src string) {
	fmt.Fprintln(w, strings.TrimRight(source.Snippet(err, name, src), "\n"))
}

// loadManifestFrom finds and loads the helix.yml governing start, which may
// be a directory or a file inside the project.
func loadManifestFrom(start string) (*driver.Manifest, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	if info, statErr := os.Stat(absStart); statErr != nil || !info.IsDir() {
		absStart = filepath.Dir(absStart)
	}
	manifestPath, err := driver.FindManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lockPath := filepath.Join(manifest.Dir, driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if manifestHasGitDependencies(manifest) {
				return nil, fmt.Errorf("%s missing for %q; run `helix deps`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func manifestHasGitDependencies(manifest *driver.Manifest) bool {
	for _, dep := range manifest.Dependencies {
		if dep.IsGit() {
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  helix run [file.helix]")
	fmt.Fprintln(w, "  helix <file.helix>")
	fmt.Fprintln(w, "  helix repl")
	fmt.Fprintln(w, "  helix deps [--verbose] [--update]")
	fmt.Fprintln(w, "  helix version")
}

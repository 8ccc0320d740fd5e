package cli

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/errors"
)

// Config holds configuration for executable discovery.
type Config struct {
	// Platform supplies PATH and PATHEXT.
	Platform config.Platform

	// Dir is the directory relative program paths are resolved against.
	// If empty, the current directory is used.
	Dir string

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates executables.
type Discoverer interface {
	// Discover returns the path of the executable for name. Names containing
	// a path separator are only checked, never searched.
	Discover(ctx context.Context, name string) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new executable discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{Platform: HostPlatform()}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the executable for name.
func (d *discoverer) Discover(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", errors.ErrEmptyCommand
	}

	if strings.ContainsAny(name, `/\`) {
		// Relative paths stay relative: the launcher evaluates them against
		// the child's working directory.
		for _, candidate := range d.candidates(name) {
			check := candidate
			if !filepath.IsAbs(check) && d.cfg.Dir != "" {
				check = filepath.Join(d.cfg.Dir, check)
			}

			if d.isExecutable(check) {
				return candidate, nil
			}
		}

		d.log.Debug("Explicit executable path not found", "path", name, "dir", d.cfg.Dir)

		return "", &errors.ExecutableNotFoundError{Name: name, SearchedPaths: []string{name}}
	}

	dirs := filepath.SplitList(d.cfg.Platform.Env("PATH"))
	searched := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		// Like exec.LookPath, never reach the working directory through PATH.
		if dir == "" || !filepath.IsAbs(dir) {
			d.log.Debug("Skipping relative PATH entry", "dir", dir)

			continue
		}

		searched = append(searched, dir)

		for _, candidate := range d.candidates(filepath.Join(dir, name)) {
			if d.isExecutable(candidate) {
				d.log.Debug("Found executable in PATH", "name", name, "path", candidate)

				return candidate, nil
			}
		}
	}

	d.log.Debug("Executable not found in any searched paths", "name", name, "searched_paths", searched)

	return "", &errors.ExecutableNotFoundError{Name: name, SearchedPaths: searched}
}

// candidates expands path with PATHEXT suffixes on Windows.
func (d *discoverer) candidates(path string) []string {
	if !d.cfg.Platform.IsWindows() || filepath.Ext(path) != "" {
		return []string{path}
	}

	exts := d.cfg.Platform.Env("PATHEXT")
	if exts == "" {
		exts = ".COM;.EXE;.BAT;.CMD"
	}

	out := []string{path}
	for ext := range strings.SplitSeq(exts, ";") {
		if ext != "" {
			out = append(out, path+strings.ToLower(ext))
		}
	}

	return out
}

// isExecutable reports whether path is a regular file that can be executed.
// Windows has no execute bits; any regular file found via PATHEXT counts.
func (d *discoverer) isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	mode := info.Mode()
	if !mode.IsRegular() {
		return false
	}

	if d.cfg.Platform.IsWindows() {
		return true
	}

	return mode&fs.ModePerm&0o111 != 0
}

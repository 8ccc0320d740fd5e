// Package cli resolves commands into something a launcher can start.
//
// This package provides three main capabilities:
//
// # Platform Defaults
//
// DefaultShell and DefaultEncoding are pure functions of an explicit
// config.Platform, so tests can resolve defaults for any operating system:
//
//	p := cli.HostPlatform()
//	shell := cli.DefaultShell(p, "")  // "/bin/sh" on unix
//	enc := cli.DefaultEncoding(p)     // charset of LC_ALL/LC_CTYPE/LANG, else "utf-8"
//
// # Command Building
//
// BuildCommand turns a CommandSpec into a config.Command, wrapping shell
// command lines with the platform shell and applying executable overrides:
//
//	cmd, err := cli.BuildCommand(spec, p)
//
// # Executable Discovery
//
// The Discoverer locates program names on the platform PATH:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    Platform: p,
//	    Logger:   slog.Default(),
//	})
//	path, err := discoverer.Discover(ctx, "git")
package cli

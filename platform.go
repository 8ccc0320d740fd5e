package capture

import "github.com/wagiedev/capture-go/internal/cli"

// HostPlatform returns the platform the program runs on.
func HostPlatform() Platform {
	return cli.HostPlatform()
}

// DefaultShell returns the shell that runs Shell commands on p. A non-empty
// executable is returned unchanged.
func DefaultShell(p Platform, executable string) string {
	return cli.DefaultShell(p, executable)
}

// DefaultEncoding returns the encoding text output is decoded with on p
// when no encoding is given.
func DefaultEncoding(p Platform) string {
	return cli.DefaultEncoding(p)
}

package cli

import (
	"os"
	"runtime"
	"strings"

	"github.com/wagiedev/capture-go/internal/config"
)

const (
	// unixShell is the default shell on every non-Windows platform.
	unixShell = "/bin/sh"

	// windowsShell is used when COMSPEC is unset.
	windowsShell = "cmd.exe"

	// windowsEncoding is the ANSI code page assumed for Windows consoles.
	windowsEncoding = "windows-1252"

	// fallbackEncoding is used when the locale names no charset.
	fallbackEncoding = "utf-8"
)

// HostPlatform describes the platform this process runs on.
func HostPlatform() config.Platform {
	return config.Platform{OS: runtime.GOOS, Getenv: os.Getenv}
}

// DefaultShell returns the shell used for shell command lines. A non-empty
// executable always wins.
func DefaultShell(p config.Platform, executable string) string {
	if executable != "" {
		return executable
	}

	if p.IsWindows() {
		if comspec := p.Env("COMSPEC"); comspec != "" {
			return comspec
		}

		return windowsShell
	}

	return unixShell
}

// DefaultEncoding returns the preferred text encoding of the platform.
// On unix it is the charset of the first non-empty of LC_ALL, LC_CTYPE and
// LANG; the C and POSIX locales are treated as UTF-8.
func DefaultEncoding(p config.Platform) string {
	if p.IsWindows() {
		return windowsEncoding
	}

	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		locale := p.Env(key)
		if locale == "" {
			continue
		}

		return localeCharset(locale)
	}

	return fallbackEncoding
}

// localeCharset extracts the charset from a locale such as "de_DE.ISO-8859-1@euro".
func localeCharset(locale string) string {
	if locale == "C" || locale == "POSIX" {
		return fallbackEncoding
	}

	_, charset, found := strings.Cut(locale, ".")
	if !found {
		return fallbackEncoding
	}

	charset, _, _ = strings.Cut(charset, "@")
	if charset == "" {
		return fallbackEncoding
	}

	if strings.EqualFold(charset, "utf8") || strings.EqualFold(charset, "utf-8") {
		return fallbackEncoding
	}

	return strings.ToLower(charset)
}

// ShellArgv wraps line for the given shell.
func ShellArgv(p config.Platform, shell, line string) []string {
	if p.IsWindows() {
		return []string{shell, "/c", line}
	}

	return []string{shell, "-c", line}
}

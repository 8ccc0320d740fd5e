package capture

import (
	"github.com/wagiedev/capture-go/internal/config"
	"github.com/wagiedev/capture-go/internal/runner"
)

// Re-export types from internal packages

// ===== Commands =====

// CommandSpec describes what to run. Build one with Exec, Shell or Line.
type CommandSpec = config.CommandSpec

// ===== Options and Configuration =====

// RunOptions configures a single run.
type RunOptions = config.Options

// Platform describes the operating system defaults are resolved for.
type Platform = config.Platform

// DefaultDrainGrace is the default grace period for draining output after a kill.
const DefaultDrainGrace = config.DefaultDrainGrace

// ===== Results =====

// Result is a completed run.
type Result = runner.Result

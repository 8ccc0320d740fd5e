// Package errors defines error types for capture runs.
//
// This package provides structured error types for the different ways a run
// can fail: rejected configuration, launch failures, timeouts, non-zero exit
// status and undecodable output. Every failure raised after a process was
// spawned carries the output captured so far. All error types support error
// unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors

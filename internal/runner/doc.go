// Package runner supervises a single child process from launch to result.
//
// A run is prepared first: options are validated, encodings resolved, the
// input payload encoded, launcher extras checked and the command built. A
// run that fails preparation never spawns anything.
//
// Once launched, both output streams are pumped by their own goroutines
// while a feeder writes stdin and a waiter reaps the process, so no pipe
// can fill up and stall the child. Exit races against the optional
// deadline and the caller's context. On a deadline or cancellation the
// process is killed and reaped, and the output streams get a grace period
// to reach end of stream before their buffers are finalized with whatever
// arrived.
package runner

// Package capture runs a child process and captures its output while
// forwarding it live.
//
// Every byte the child writes to stdout and stderr is stored in a buffer
// and, at the same time, copied to the caller's own stdout and stderr (or to
// writers of the caller's choosing) as soon as it arrives. Both streams are
// drained concurrently, so a child that fills one pipe while the parent is
// waiting on the other can never deadlock the run.
//
// # Basic Usage
//
//	res, err := capture.Run(ctx, capture.Exec("go", "version"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("exit %d, %d bytes of output\n", res.ReturnCode, len(res.Stdout))
//
// Shell command lines run through the platform shell:
//
//	res, err := capture.Run(ctx, capture.Shell("make test 2>&1 | tail -n 20"),
//	    capture.WithText(),
//	    capture.WithCheck(),
//	)
//
// # Text Mode
//
// WithText or WithEncoding decode the captured output. Line endings are
// normalized to "\n" in the buffers, while the passthrough copy stays byte
// for byte what the child wrote. Output that cannot be decoded does not stop
// the run; the first failure is reported as a DecodeError once the process
// has finished, carrying the complete buffers of both streams.
//
// # Timeouts and Cancellation
//
// WithTimeout kills the process once it has run too long and returns a
// TimeoutError holding everything captured up to that point. Cancelling the
// context does the same and returns an InterruptedError. Output streams that
// stay open after the kill, for example because a grandchild inherited
// them, are abandoned after a grace period (WithDrainGrace).
//
// # Error Handling
//
// All errors are typed and can be inspected with errors.As:
//
//	res, err := capture.Run(ctx, capture.Exec("false"), capture.WithCheck())
//
//	var exitErr *capture.ExitStatusError
//	if errors.As(err, &exitErr) {
//	    fmt.Printf("exit status %d: %s\n", exitErr.ReturnCode, exitErr.Stderr)
//	}
//
// Invalid option combinations are rejected with a ConfigError before any
// process is started.
//
// # Manifests
//
// RunManifest reads the command and its settings from a YAML file:
//
//	args: [go, test, ./...]
//	text: true
//	check: true
//	timeout: 10m
package capture

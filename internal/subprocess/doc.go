// Package subprocess provides the os/exec based process launcher.
//
// The launcher locates the executable, connects the child's three standard
// streams to fresh operating system pipes and starts it. The parent ends of
// the pipes are plain *os.File values: waiting for the process never closes
// or drains them, and closing a read end unblocks a pending Read, which lets
// a run abandon output streams that are held open by a grandchild.
//
// Launcher extras:
//
//   - "kill_signal": the signal sent when a run is killed, given as an
//     os.Signal, a signal number or a name such as "TERM" or "SIGINT".
//     Defaults to SIGKILL.
package subprocess

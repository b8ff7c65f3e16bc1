// Package procwait implements the single stop-aware wait primitive that
// both the process launcher (foreground waits) and the job controller
// (fg/bg resume, background polling) build on: a wait4 over a whole
// process group that distinguishes termination from a SIGTSTP/SIGSTOP
// stop, per spec's "stop-aware wait" concept.
package procwait

import "golang.org/x/sys/unix"

// Wait waits on process group pgid. remaining is the number of processes
// in the group not yet reaped; Wait decrements it as members terminate.
//
// When blocking is true, Wait blocks (restricted only by WUNTRACED, so a
// stop is still observed) until either a member stops or remaining
// reaches zero. When blocking is false it performs a single WNOHANG pass,
// draining whatever terminations are immediately available and returning
// as soon as nothing more is ready — used for the background poll, which
// must never block the prompt loop.
//
// A group with no live members left (ECHILD) is reported as remaining
// zero with no error, matching "this has been observed by the shell" in
// spec's Job table removal condition.
func Wait(pgid, remaining int, blocking bool) (stopped bool, remainingAfter int, err error) {
	flags := unix.WUNTRACED
	if !blocking {
		flags |= unix.WNOHANG
	}

	for remaining > 0 {
		var ws unix.WaitStatus
		pid, werr := unix.Wait4(-pgid, &ws, flags, nil)
		if werr != nil {
			if werr == unix.ECHILD {
				return false, 0, nil
			}
			return false, remaining, werr
		}
		if pid == 0 {
			// WNOHANG: nothing has changed state yet this pass.
			return false, remaining, nil
		}

		switch {
		case ws.Stopped():
			return true, remaining, nil
		case ws.Exited(), ws.Signaled():
			remaining--
		}
	}

	return false, remaining, nil
}

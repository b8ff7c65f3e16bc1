// Package terminal wraps the controlling terminal's foreground-process-
// group designation — the one shared resource the shell and its jobs must
// hand off carefully (see spec's concurrency & resource model). It is the
// Go home for what a C shell would reach for as tcgetpgrp(3)/tcsetpgrp(3).
package terminal

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal holds the file descriptor astrashell treats as its controlling
// terminal. When that descriptor is not actually a tty (piped stdin under
// a test harness, for instance), every method is a no-op so the process-
// management core stays exercisable without a pty.
type Terminal struct {
	fd          int
	interactive bool
}

// Open inspects f (normally os.Stdin) and returns a Terminal bound to it.
func Open(f *os.File) *Terminal {
	fd := int(f.Fd())
	return &Terminal{fd: fd, interactive: term.IsTerminal(fd)}
}

// Interactive reports whether this Terminal is backed by a real tty.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

// Foreground makes pgid the terminal's foreground process group. It is a
// no-op when the terminal is not interactive.
func (t *Terminal) Foreground(pgid int) error {
	if !t.interactive {
		return nil
	}
	return unix.IoctlSetPointerInt(t.fd, unix.TIOCSPGRP, pgid)
}

// ForegroundPGID returns the terminal's current foreground process group,
// or 0 when the terminal is not interactive.
func (t *Terminal) ForegroundPGID() (int, error) {
	if !t.interactive {
		return 0, nil
	}
	return unix.IoctlGetInt(t.fd, unix.TIOCGPGRP)
}

// Package job implements astrashell's job table and job-control state
// machine: the "E" component — tracking running/stopped/completed
// pipelines, transferring terminal ownership, and servicing fg/bg.
package job

import "github.com/google/uuid"

// State is a Job's position in the Running -> Stopped -> Done state
// machine described by the shell's job-control model. Done is terminal;
// a Done job is removed from the table rather than retained.
type State int

const (
	Running State = iota
	Stopped
	Done
)

// String renders State exactly as it appears in the `jobs` builtin's
// output and in job-control notifications.
func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Job represents one pipeline executing under a shared process group.
type Job struct {
	ID       int
	PGID     int
	Command  string
	State    State
	LaunchID uuid.UUID

	// remaining is the count of processes in PGID's group not yet
	// reaped. It is not part of the user-visible job-control contract;
	// it is how the controller knows when a group has gone fully quiet.
	remaining int
}

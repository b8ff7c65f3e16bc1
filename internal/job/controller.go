package job

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"astrashell/internal/diag"
	"astrashell/internal/procwait"
	"astrashell/internal/terminal"
)

// Controller is the job-control authority: it owns the Table, the
// terminal hand-off for fg/bg resume, and the per-prompt background
// poll. The process launcher registers jobs through it; the jobs/fg/bg
// builtins act through it too.
type Controller struct {
	table     *Table
	term      *terminal.Terminal
	shellPGID int
	out       io.Writer
	errOut    io.Writer
	log       *diag.Logger
}

// NewController builds a Controller bound to the shell's controlling
// terminal and its own process group, writing job-control notifications
// to out and failures to errOut.
func NewController(term *terminal.Terminal, shellPGID int, out, errOut io.Writer, log *diag.Logger) *Controller {
	return &Controller{table: NewTable(), term: term, shellPGID: shellPGID, out: out, errOut: errOut, log: log}
}

// LaunchBackground registers a newly started background pipeline and
// prints "[id] pgid\n".
func (c *Controller) LaunchBackground(pgid, members int, command string) *Job {
	j := c.table.add(pgid, members, command, Running)
	fmt.Fprintf(c.out, "[%d] %d\n", j.ID, pgid)
	c.log.Info("job launched in background", "job_id", j.ID, "pgid", pgid, "launch_id", j.LaunchID.String())
	return j
}

// RegisterStopped registers a foreground pipeline the launcher observed
// stop, printing "[id] Stopped <command>\n".
func (c *Controller) RegisterStopped(pgid, members int, command string) *Job {
	j := c.table.add(pgid, members, command, Stopped)
	fmt.Fprintf(c.out, "[%d] Stopped %s\n", j.ID, command)
	c.log.Info("job stopped from foreground", "job_id", j.ID, "pgid", pgid, "launch_id", j.LaunchID.String())
	return j
}

// List returns a snapshot of the live job table, for tab-completion.
func (c *Controller) List() []*Job {
	return c.table.List()
}

// PrintJobs implements the `jobs` builtin: one line per live Job as
// "[id] <state> <command>".
func (c *Controller) PrintJobs() {
	for _, j := range c.table.List() {
		fmt.Fprintf(c.out, "[%d] %s %s\n", j.ID, j.State, j.Command)
	}
}

// Foreground implements `fg %id`: hands the terminal to the job, sends
// SIGCONT to the whole group, waits with stop-awareness, then
// unconditionally returns the terminal to the shell. An unknown id is a
// silent no-op.
func (c *Controller) Foreground(id int) error {
	j, ok := c.table.Get(id)
	if !ok {
		return nil
	}

	if c.term.Interactive() {
		_ = c.term.Foreground(j.PGID)
	}

	if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
		c.log.Warn("sigcont failed", "job_id", id, "err", err)
	}

	stopped, remaining, err := procwait.Wait(j.PGID, j.remaining, true)

	if c.term.Interactive() {
		_ = c.term.Foreground(c.shellPGID)
	}

	if err != nil {
		c.log.Warn("foreground wait failed", "job_id", id, "err", err)
		c.table.remove(id)
		return fmt.Errorf("wait: %w", err)
	}

	j.remaining = remaining

	if stopped {
		j.State = Stopped
		fmt.Fprintf(c.out, "[%d] Stopped %s\n", j.ID, j.Command)
		return nil
	}

	c.table.remove(id)
	return nil
}

// Background implements `bg %id`: sends SIGCONT without transferring the
// terminal, printing "[id] <command> &\n". An unknown id is a silent
// no-op.
func (c *Controller) Background(id int) error {
	j, ok := c.table.Get(id)
	if !ok {
		return nil
	}

	if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
		return fmt.Errorf("bg: %w", err)
	}

	j.State = Running
	fmt.Fprintf(c.out, "[%d] %s &\n", j.ID, j.Command)
	return nil
}

// Poll performs the non-blocking background reap run at every prompt
// boundary: each Running job gets a single WNOHANG pass, and a job whose
// group has gone fully quiet is reported Done and removed.
func (c *Controller) Poll() {
	for _, j := range c.table.List() {
		if j.State != Running {
			continue
		}

		_, remaining, err := procwait.Wait(j.PGID, j.remaining, false)
		if err != nil {
			fmt.Fprintf(c.errOut, "astrashell: wait: %v\n", err)
			c.log.Warn("background wait failed", "job_id", j.ID, "err", err)
			c.table.remove(j.ID)
			continue
		}

		j.remaining = remaining
		if remaining == 0 {
			fmt.Fprintf(c.out, "[%d] Done  %s\n", j.ID, j.Command)
			c.log.Info("job done", "job_id", j.ID, "launch_id", j.LaunchID.String())
			c.table.remove(j.ID)
		}
	}
}

// Package process is astrashell's process launcher — the "D" component.
// It starts external commands and pipelines, places them in their own
// process group (assigned redundantly on both the parent and child side
// to close the post-fork race window), resets the four signal
// dispositions the shell ignores back to SIG_DFL in the child before
// exec, wires pipeline file descriptors, and performs the foreground
// terminal hand-off and stop-aware wait for commands run in the
// foreground.
package process

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"astrashell/internal/diag"
	"astrashell/internal/job"
	"astrashell/internal/procwait"
	"astrashell/internal/terminal"
)

// Command is a single pipeline stage: a program name and its arguments.
type Command struct {
	Args []string
}

// Launcher starts Commands and Pipelines and registers the jobs that
// result from backgrounding or stopping them.
type Launcher struct {
	term      *terminal.Terminal
	shellPGID int
	jobs      *job.Controller
	log       *diag.Logger
}

// New builds a Launcher bound to the shell's controlling terminal, its
// own process group, and the job controller jobs are registered with.
func New(term *terminal.Terminal, shellPGID int, jobs *job.Controller, log *diag.Logger) *Launcher {
	return &Launcher{term: term, shellPGID: shellPGID, jobs: jobs, log: log}
}

// Run starts stages as a single command or a pipeline, per stage count,
// and either registers a background job or waits for it in the
// foreground. commandText is the original line, retained verbatim for
// job-table display.
func (l *Launcher) Run(stages []Command, background bool, commandText string) error {
	if len(stages) == 0 {
		return nil
	}
	if len(stages) == 1 {
		return l.runSingle(stages[0], background, commandText)
	}
	return l.runPipeline(stages, background, commandText)
}

func (l *Launcher) runSingle(c Command, background bool, text string) error {
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	// CLONE_CLEAR_SIGHAND resets every signal disposition to SIG_DFL in
	// the child, including SIGINT/SIGTSTP/SIGTTIN/SIGTTOU, which the
	// shell itself runs with SIG_IGN; without this the ignored
	// disposition survives exec and the child never stops on Ctrl-Z.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Cloneflags: syscall.CLONE_CLEAR_SIGHAND}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("execvp: %w", err)
	}

	pid := cmd.Process.Pid
	// Redundant parent-side group assignment: defeats the race where
	// either side could reach the group assignment first.
	if err := unix.Setpgid(pid, pid); err != nil {
		l.log.Warn("parent-side setpgid raced harmlessly", "pid", pid, "err", err)
	}

	if background {
		l.jobs.LaunchBackground(pid, 1, text)
		return nil
	}

	return l.waitForeground(pid, 1, text)
}

func (l *Launcher) runPipeline(stages []Command, background bool, text string) error {
	n := len(stages)
	readers := make([]*os.File, n-1)
	writers := make([]*os.File, n-1)

	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll(readers, writers)
			return fmt.Errorf("pipe: %w", err)
		}
		readers[i], writers[i] = r, w
	}

	cmds := make([]*exec.Cmd, n)
	var leaderPID int

	for i, stage := range stages {
		cmd := exec.Command(stage.Args[0], stage.Args[1:]...)
		cmd.Stderr = os.Stderr

		if i == 0 {
			cmd.Stdin = os.Stdin
		} else {
			cmd.Stdin = readers[i-1]
		}
		if i == n-1 {
			cmd.Stdout = os.Stdout
		} else {
			cmd.Stdout = writers[i]
		}

		attr := &syscall.SysProcAttr{Setpgid: true, Cloneflags: syscall.CLONE_CLEAR_SIGHAND}
		if i > 0 {
			attr.Pgid = leaderPID
		}
		cmd.SysProcAttr = attr

		if err := cmd.Start(); err != nil {
			for _, started := range cmds[:i] {
				if started != nil && started.Process != nil {
					_ = started.Process.Kill()
				}
			}
			closeAll(readers, writers)
			return fmt.Errorf("execvp: %w", err)
		}

		if i == 0 {
			leaderPID = cmd.Process.Pid
		}
		if err := unix.Setpgid(cmd.Process.Pid, leaderPID); err != nil {
			l.log.Warn("parent-side setpgid raced harmlessly", "pid", cmd.Process.Pid, "err", err)
		}

		cmds[i] = cmd
	}

	// All data-flow descriptors must close in the parent so readers
	// observe EOF when their writer exits.
	closeAll(readers, writers)

	if background {
		l.jobs.LaunchBackground(leaderPID, n, text)
		return nil
	}

	return l.waitForeground(leaderPID, n, text)
}

func (l *Launcher) waitForeground(pgid, members int, text string) error {
	if l.term.Interactive() {
		_ = l.term.Foreground(pgid)
	}

	stopped, _, err := procwait.Wait(pgid, members, true)

	// Unconditional on the wait outcome: even a stopped job does not
	// keep the terminal.
	if l.term.Interactive() {
		_ = l.term.Foreground(l.shellPGID)
	}

	if err != nil {
		return fmt.Errorf("wait: %w", err)
	}

	if stopped {
		l.jobs.RegisterStopped(pgid, members, text)
	}

	return nil
}

func closeAll(groups ...[]*os.File) {
	for _, g := range groups {
		for _, f := range g {
			if f != nil {
				_ = f.Close()
			}
		}
	}
}

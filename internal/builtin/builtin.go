// Package builtin implements astrashell's fixed builtin surface: exit,
// cd, pwd, jobs, fg, bg. Each runs synchronously in the shell process and
// never forks — a builtin appearing as any stage of a multi-stage
// pipeline is instead routed to the process launcher as an external
// command (see internal/planner).
package builtin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"astrashell/internal/job"
)

// Names is the fixed set of builtin command names this dispatcher
// recognizes.
var Names = map[string]bool{
	"exit": true,
	"cd":   true,
	"pwd":  true,
	"jobs": true,
	"fg":   true,
	"bg":   true,
}

// IsBuiltin reports whether name is one of astrashell's builtins.
func IsBuiltin(name string) bool {
	return Names[name]
}

// ErrExit is returned by Execute for the "exit" builtin; the REPL driver
// treats it as a clean request to stop the loop rather than a failure.
var ErrExit = errors.New("exit")

// Dispatcher executes builtins. Its errors are formatted "<name>: <msg>".
type Dispatcher struct {
	Stdout io.Writer
	Jobs   *job.Controller
}

// New builds a Dispatcher writing builtin output to stdout and routing
// jobs/fg/bg through jobs.
func New(stdout io.Writer, jobs *job.Controller) *Dispatcher {
	return &Dispatcher{Stdout: stdout, Jobs: jobs}
}

// Execute runs the builtin named by args[0] with the remaining tokens as
// its arguments.
func (d *Dispatcher) Execute(args []string) error {
	switch args[0] {
	case "exit":
		return ErrExit
	case "cd":
		return d.cd(args)
	case "pwd":
		return d.pwd()
	case "jobs":
		d.Jobs.PrintJobs()
		return nil
	case "fg":
		return d.fg(args)
	case "bg":
		return d.bg(args)
	default:
		return fmt.Errorf("%s: not a builtin", args[0])
	}
}

func (d *Dispatcher) cd(args []string) error {
	var dir string
	switch {
	case len(args) == 1 || args[1] == "~":
		dir = os.Getenv("HOME")
	case len(args) > 2:
		return fmt.Errorf("cd: too many arguments")
	default:
		dir = args[1]
	}

	if err := os.Chdir(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cd: %s: No such file or directory", dir)
		}
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

func (d *Dispatcher) pwd() error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("pwd: %w", err)
	}
	if _, err := fmt.Fprintln(d.Stdout, dir); err != nil {
		return fmt.Errorf("pwd: %w", err)
	}
	return nil
}

func (d *Dispatcher) fg(args []string) error {
	id, err := jobArg(args)
	if err != nil {
		return fmt.Errorf("fg: %w", err)
	}
	return d.Jobs.Foreground(id)
}

func (d *Dispatcher) bg(args []string) error {
	id, err := jobArg(args)
	if err != nil {
		return fmt.Errorf("bg: %w", err)
	}
	return d.Jobs.Background(id)
}

// jobArg parses the single "%<integer>" argument fg/bg require.
func jobArg(args []string) (int, error) {
	if len(args) != 2 || !strings.HasPrefix(args[1], "%") {
		return 0, fmt.Errorf("usage: %s %%<id>", args[0])
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[1], "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid job id %q", args[1])
	}
	return id, nil
}

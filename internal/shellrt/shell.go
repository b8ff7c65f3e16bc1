// Package shellrt wires astrashell's components into the interactive
// REPL: it owns the readline terminal, claims the shell's process group
// and the controlling terminal at startup, and drives the read-plan-
// execute-poll cycle that the rest of the packages implement.
package shellrt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/sys/unix"

	"astrashell/internal/builtin"
	"astrashell/internal/completer"
	"astrashell/internal/config"
	"astrashell/internal/diag"
	"astrashell/internal/job"
	"astrashell/internal/planner"
	"astrashell/internal/process"
	"astrashell/internal/terminal"
	"astrashell/internal/token"
)

const prompt = "astra$ "

// Shell holds the runtime state of the interactive REPL: the readline
// terminal, the job table, the process launcher, the builtin dispatcher,
// and the descriptor-leak watchdog's baseline.
type Shell struct {
	term          *readline.Instance
	completer     *completer.Completer
	jobs          *job.Controller
	launcher      *process.Launcher
	builtins      *builtin.Dispatcher
	log           *diag.Logger
	descriptors   int
	checkCounter  uint
	checkInterval uint
}

// Run boots the shell and drives the REPL loop to completion, returning
// the process exit status: 0 on a clean exit, 1 if boot failed.
func Run() int {
	sh, err := boot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sh.close()

	sh.loop()
	return 0
}

// boot loads configuration (falling back to defaults on error), claims
// the shell's own process group and, if interactive, the controlling
// terminal's foreground group, installs the signal discipline spec.md
// §5 requires, and wires the job controller, launcher, builtin
// dispatcher, and completer together.
func boot() (*Shell, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	log := diag.Discard()
	if cfg.DiagLogPath != "" {
		if l, err := diag.New(cfg.DiagLogPath); err == nil {
			log = l
		}
	}

	shellPID := os.Getpid()
	if err := unix.Setpgid(shellPID, shellPID); err != nil {
		log.Warn("failed to claim a fresh process group", "err", err)
	}

	term := terminal.Open(os.Stdin)
	if term.Interactive() {
		if err := term.Foreground(shellPID); err != nil {
			log.Warn("failed to claim the controlling terminal", "err", err)
		}
	}

	// Keyboard-generated signals never touch the shell itself; children
	// restore default dispositions before exec (internal/process).
	signal.Ignore(unix.SIGINT, unix.SIGTSTP, unix.SIGTTIN, unix.SIGTTOU)
	// SIGCHLD is deliberately left with no Go-side handler at all:
	// reaping happens only at the deterministic wait points in
	// internal/process and internal/job.

	jobs := job.NewController(term, shellPID, os.Stdout, os.Stderr, log)
	launcher := process.New(term, shellPID, jobs, log)
	dispatcher := builtin.New(os.Stdout, jobs)
	comp := completer.New(jobs)

	readlineCfg := &readline.Config{
		HistoryFile:     cfg.HistoryFile,
		HistoryLimit:    cfg.HistoryLimit,
		InterruptPrompt: cfg.InterruptPrompt,
		EOFPrompt:       "\nexit",
		AutoComplete:    comp,
	}
	rl, err := readline.NewEx(readlineCfg)
	if err != nil {
		return nil, fmt.Errorf("astrashell: boot: failed to create terminal instance: %w", err)
	}

	descriptors, err := os.ReadDir(fmt.Sprintf("/proc/%d/fd", shellPID))
	baseline := 0
	if err == nil {
		baseline = len(descriptors)
	}

	return &Shell{
		term:          rl,
		completer:     comp,
		jobs:          jobs,
		launcher:      launcher,
		builtins:      dispatcher,
		log:           log,
		descriptors:   baseline,
		checkInterval: cfg.LeakCheckEvery,
	}, nil
}

// loop runs the read-plan-execute-poll cycle until EOF or "exit".
func (sh *Shell) loop() {
	for {
		sh.completer.Update()
		sh.term.SetPrompt(prompt)

		line, err := sh.term.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintln(os.Stderr, "astrashell:", err)
			continue
		}

		if sh.execute(line) {
			return
		}

		sh.jobs.Poll()
		sh.leakCheck()
	}
}

// execute tokenizes, plans, and runs a single input line. It returns
// true when the line was "exit" and the REPL loop should stop.
func (sh *Shell) execute(line string) bool {
	tokens := token.Tokenize(line)
	if len(tokens) == 0 {
		return false
	}

	pipeline, err := planner.Plan(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if len(pipeline.Stages) == 0 {
		return false
	}

	if planner.IsBuiltinInvocation(pipeline, builtin.IsBuiltin) {
		err := sh.builtins.Execute(pipeline.Stages[0].Args)
		if errors.Is(err, builtin.ErrExit) {
			return true
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "astrashell:", err)
		}
		return false
	}

	stages := make([]process.Command, len(pipeline.Stages))
	for i, s := range pipeline.Stages {
		stages[i] = process.Command{Args: s.Args}
	}
	if err := sh.launcher.Run(stages, pipeline.Background, strings.TrimSpace(line)); err != nil {
		fmt.Fprintln(os.Stderr, "astrashell:", err)
	}
	return false
}

// leakCheck is astrashell's adaptation of the teacher's sysmon watchdog:
// every checkInterval prompts it compares the open descriptor count
// against the boot-time baseline and logs (never panics) a mismatch.
func (sh *Shell) leakCheck() {
	if sh.checkInterval == 0 {
		return
	}
	sh.checkCounter++
	if sh.checkCounter < sh.checkInterval {
		return
	}
	sh.checkCounter = 0

	entries, err := os.ReadDir(fmt.Sprintf("/proc/%d/fd", os.Getpid()))
	if err != nil {
		return
	}
	if len(entries) > sh.descriptors {
		sh.log.Warn("descriptor count above baseline",
			"baseline", sh.descriptors, "current", len(entries))
	}
}

func (sh *Shell) close() {
	_ = sh.term.Close()
	sh.log.Close()
}

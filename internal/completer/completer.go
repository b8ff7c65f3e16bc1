// Package completer provides filesystem- and job-aware tab completion for
// astrashell. It rebuilds a readline.PrefixCompleter tree from the
// current directory contents and the live job table on each prompt
// iteration.
package completer

import (
	"os"
	"strconv"

	"github.com/chzyer/readline"
	ps "github.com/mitchellh/go-ps"

	"astrashell/internal/builtin"
	"astrashell/internal/job"
)

// Completer adapts astrashell's dynamic environment (filesystem and job
// table) to the readline.AutoCompleter interface.
type Completer struct {
	jobs              *job.Controller
	readlineCompleter *readline.PrefixCompleter
}

// New returns a Completer backed by jobs, with an empty underlying
// PrefixCompleter until the first Update.
func New(jobs *job.Controller) *Completer {
	return &Completer{jobs: jobs, readlineCompleter: readline.NewPrefixCompleter()}
}

// Update rebuilds the completion tree: directory entries for cd, and
// "%<id>" arguments for fg/bg restricted to jobs whose process group
// leader is still alive system-wide.
func (c *Completer) Update() {
	var onlyDirs []readline.PrefixCompleterInterface

	entries, err := os.ReadDir(".")
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				onlyDirs = append(onlyDirs, readline.PcItem(entry.Name()+"/"))
			}
		}
	}

	var jobArgs []readline.PrefixCompleterInterface
	for _, id := range c.liveJobIDs() {
		jobArgs = append(jobArgs, readline.PcItem("%"+strconv.Itoa(id)))
	}

	var items []readline.PrefixCompleterInterface
	for name := range builtin.Names {
		switch name {
		case "cd":
			items = append(items, readline.PcItem("cd", onlyDirs...))
		case "fg":
			items = append(items, readline.PcItem("fg", jobArgs...))
		case "bg":
			items = append(items, readline.PcItem("bg", jobArgs...))
		default:
			items = append(items, readline.PcItem(name))
		}
	}

	c.readlineCompleter = readline.NewPrefixCompleter(items...)
}

// liveJobIDs returns the ids of tracked jobs whose process-group leader
// still shows up in the system-wide process list, excluding jobs the
// shell hasn't polled since they exited.
func (c *Completer) liveJobIDs() []int {
	processes, err := ps.Processes()
	if err != nil {
		return nil
	}
	alive := make(map[int]bool, len(processes))
	for _, p := range processes {
		alive[p.Pid()] = true
	}

	var ids []int
	for _, j := range c.jobs.List() {
		if alive[j.PGID] {
			ids = append(ids, j.ID)
		}
	}
	return ids
}

// Do delegates the completion logic to the underlying PrefixCompleter,
// satisfying the readline.AutoCompleter interface.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	return c.readlineCompleter.Do(line, pos)
}

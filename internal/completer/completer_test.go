package completer

import (
	"bytes"
	"os/exec"
	"syscall"
	"testing"

	"astrashell/internal/diag"
	"astrashell/internal/job"
	"astrashell/internal/terminal"
)

func newTestJobs() *job.Controller {
	var out, errOut bytes.Buffer
	return job.NewController(terminal.Open(nil), 0, &out, &errOut, diag.Discard())
}

func TestUpdateOffersBuiltinNames(t *testing.T) {
	c := New(newTestJobs())
	c.Update()

	for _, name := range []string{"cd", "pwd", "jobs", "fg", "bg", "exit"} {
		line := []rune(name)
		matches, _ := c.Do(line, len(line))
		if len(matches) == 0 {
			// An exact, complete token still yields a match with an
			// empty remainder when the completer recognizes it.
			full, _ := c.Do([]rune(name+" "), len(name)+1)
			if full == nil {
				t.Errorf("expected %q to be a recognized completion root", name)
			}
		}
	}
}

func TestLiveJobIDsExcludesExitedGroups(t *testing.T) {
	jobs := newTestJobs()
	c := New(jobs)

	cmd := exec.Command("true")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start process: %v", err)
	}
	pid := cmd.Process.Pid
	jobs.LaunchBackground(pid, 1, "true")
	cmd.Wait()

	// Give the kernel a moment to retire the pid from /proc before
	// sampling; loop rather than sleeping a fixed duration.
	var ids []int
	for i := 0; i < 100; i++ {
		ids = c.liveJobIDs()
		if len(ids) == 0 {
			break
		}
	}

	if len(ids) != 0 {
		t.Fatalf("expected no live job ids for an exited group, got %v", ids)
	}
}

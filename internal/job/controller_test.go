package job

import (
	"bytes"
	"os/exec"
	"strconv"
	"syscall"
	"testing"

	"astrashell/internal/diag"
	"astrashell/internal/terminal"
)

// newTestController builds a Controller against a non-interactive
// terminal (no pty in the test sandbox), so foreground hand-off is a
// no-op and only the wait/notification semantics are exercised.
func newTestController(out, errOut *bytes.Buffer) *Controller {
	return NewController(terminal.Open(nil), 0, out, errOut, diag.Discard())
}

func startGroup(t *testing.T, args ...string) int {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start %v: %v", args, err)
	}
	return cmd.Process.Pid
}

func TestJobIDsAreMonotonicAndUnique(t *testing.T) {
	var out, errOut bytes.Buffer
	c := newTestController(&out, &errOut)

	j1 := c.LaunchBackground(startGroup(t, "sleep", "5"), 1, "sleep 5")
	j2 := c.LaunchBackground(startGroup(t, "sleep", "5"), 1, "sleep 5")

	if j1.ID != 1 || j2.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", j1.ID, j2.ID)
	}
}

func TestLaunchBackgroundPrintsFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	c := newTestController(&out, &errOut)

	pgid := startGroup(t, "sleep", "5")
	j := c.LaunchBackground(pgid, 1, "sleep 5")

	want := "[1] " + strconv.Itoa(pgid) + "\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
	if j.PGID != pgid {
		t.Fatalf("pgid mismatch")
	}
}

func TestPollReportsDoneAndRemoves(t *testing.T) {
	var out, errOut bytes.Buffer
	c := newTestController(&out, &errOut)

	pgid := startGroup(t, "true")
	c.LaunchBackground(pgid, 1, "true")
	out.Reset()

	// give the child a moment to exit; Poll is non-blocking so loop a
	// few times rather than sleeping an exact duration.
	for i := 0; i < 100; i++ {
		c.Poll()
		if out.Len() > 0 {
			break
		}
	}

	want := "[1] Done  true\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
	if _, ok := c.table.Get(1); ok {
		t.Fatalf("expected job 1 to be removed after completion")
	}
}

func TestBackgroundUnknownJobIsNoop(t *testing.T) {
	var out, errOut bytes.Buffer
	c := newTestController(&out, &errOut)

	if err := c.Background(99); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestForegroundUnknownJobIsNoop(t *testing.T) {
	var out, errOut bytes.Buffer
	c := newTestController(&out, &errOut)

	if err := c.Foreground(99); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

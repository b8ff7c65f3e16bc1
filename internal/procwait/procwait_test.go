package procwait

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func startInNewGroup(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start %v: %v", args, err)
	}
	return cmd
}

func TestWaitReapsExitedMember(t *testing.T) {
	cmd := startInNewGroup(t, "true")
	pgid := cmd.Process.Pid

	stopped, remaining, err := Wait(pgid, 1, true)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if stopped {
		t.Fatalf("did not expect a stop")
	}
	if remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", remaining)
	}
}

func TestWaitNonBlockingReturnsImmediatelyWhenNothingReady(t *testing.T) {
	cmd := startInNewGroup(t, "sleep", "5")
	defer cmd.Process.Kill()
	pgid := cmd.Process.Pid

	start := time.Now()
	stopped, remaining, err := Wait(pgid, 1, false)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("non-blocking wait took too long: %v", time.Since(start))
	}
	if stopped {
		t.Fatalf("did not expect a stop")
	}
	if remaining != 1 {
		t.Fatalf("expected the still-sleeping process to remain, got %d", remaining)
	}
}

func TestWaitObservesStop(t *testing.T) {
	cmd := startInNewGroup(t, "sleep", "5")
	pgid := cmd.Process.Pid

	if err := unix.Kill(-pgid, unix.SIGSTOP); err != nil {
		t.Skipf("cannot signal group: %v", err)
	}

	stopped, remaining, err := Wait(pgid, 1, true)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !stopped {
		t.Fatalf("expected a stop to be observed")
	}
	if remaining != 1 {
		t.Fatalf("a stopped process is still live, expected remaining 1, got %d", remaining)
	}

	_ = unix.Kill(-pgid, unix.SIGCONT)
	_ = unix.Kill(-pgid, unix.SIGKILL)
	Wait(pgid, 1, true)
}

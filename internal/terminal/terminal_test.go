package terminal

import "testing"

func TestOpenNonTerminalIsNotInteractive(t *testing.T) {
	term := Open(nil)
	if term.Interactive() {
		t.Fatal("expected a nil file to be reported as non-interactive")
	}
}

func TestForegroundIsNoopWhenNotInteractive(t *testing.T) {
	term := Open(nil)
	if err := term.Foreground(1234); err != nil {
		t.Fatalf("expected a no-op, got %v", err)
	}
	pgid, err := term.ForegroundPGID()
	if err != nil || pgid != 0 {
		t.Fatalf("expected (0, nil), got (%d, %v)", pgid, err)
	}
}

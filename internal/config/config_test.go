package config

import (
	"strings"
	"testing"
)

func TestDefaultHasSaneValues(t *testing.T) {
	cfg := Default()

	if cfg.HistoryLimit <= 0 {
		t.Errorf("expected a positive history limit, got %d", cfg.HistoryLimit)
	}
	if !strings.HasSuffix(cfg.HistoryFile, ".astrashell_history") {
		t.Errorf("unexpected history file path %q", cfg.HistoryFile)
	}
	if cfg.LeakCheckEvery == 0 {
		t.Error("expected a nonzero leak check interval")
	}
	if cfg.DiagLogPath != "" {
		t.Errorf("expected diagnostics disabled by default, got %q", cfg.DiagLogPath)
	}
}

func TestLoadFailsWithoutConfigFile(t *testing.T) {
	cfg, err := Load()
	if err == nil {
		t.Skip("a config file happens to be present in the working directory")
	}
	// Even on failure, Load must hand back a usable Config rather than a
	// zero-valued one.
	if cfg.HistoryLimit != Default().HistoryLimit {
		t.Errorf("expected the error path to return Default(), got %+v", cfg)
	}
}

func TestValidateDiagLogPathRejectsUnusableParent(t *testing.T) {
	cfg := &Config{DiagLogPath: "/no/such/directory/astrashell.log"}
	cfg.validateDiagLogPath()

	if cfg.DiagLogPath != "" {
		t.Errorf("expected an unusable parent directory to disable diagnostics, got %q", cfg.DiagLogPath)
	}
}

func TestValidateDiagLogPathAcceptsExistingParent(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{DiagLogPath: dir + "/astrashell.log"}
	cfg.validateDiagLogPath()

	if cfg.DiagLogPath == "" {
		t.Error("expected a usable parent directory to keep diagnostics enabled")
	}
}

// Package config loads astrashell's ambient, non-behavioral settings
// (history file, diagnostic log path, leak-check cadence) from a config
// file using Viper. None of these fields influence the shell's required
// prompt string or job-control output formats.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds user-configurable ambient settings for the shell.
type Config struct {
	HistoryFile     string `mapstructure:"history_file"`
	HistoryLimit    int    `mapstructure:"history_limit"`
	InterruptPrompt string `mapstructure:"interrupt_prompt"`
	DiagLogPath     string `mapstructure:"diag_log_path"`
	LeakCheckEvery  uint   `mapstructure:"leak_check_every"`
}

// Load reads configuration from a file named "config" in the current
// directory using Viper and unmarshals it into a Config instance. Every
// field is seeded from Default() via viper.SetDefault before the file is
// read, so a config file that sets only one or two keys (e.g. just
// diag_log_path to turn on diagnostics) still yields a complete, usable
// Config rather than zero-valuing the fields it left unmentioned. If
// reading or unmarshaling fails, a *Default() Config is still returned
// alongside the error rather than a zero-valued one, since the caller
// needs a usable Config either way.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")

	def := Default()
	viper.SetDefault("history_file", def.HistoryFile)
	viper.SetDefault("history_limit", def.HistoryLimit)
	viper.SetDefault("interrupt_prompt", def.InterruptPrompt)
	viper.SetDefault("diag_log_path", def.DiagLogPath)
	viper.SetDefault("leak_check_every", def.LeakCheckEvery)

	if err := viper.ReadInConfig(); err != nil {
		return def, fmt.Errorf("astrashell: boot: failed to load config: %w", err)
	}

	cfg := new(Config)
	if err := viper.Unmarshal(cfg); err != nil {
		return def, fmt.Errorf("astrashell: boot: failed to unmarshal config: %w", err)
	}

	cfg.validateDiagLogPath()
	return cfg, nil
}

// validateDiagLogPath disables diagnostic logging rather than letting a
// bad path surface later as a confusing internal/diag.New failure: a
// relative or otherwise malformed diag_log_path whose parent directory
// doesn't exist is treated the same as an unset one.
func (c *Config) validateDiagLogPath() {
	if c.DiagLogPath == "" {
		return
	}
	dir := filepath.Dir(c.DiagLogPath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "astrashell: boot: diag_log_path %q: parent directory unusable, diagnostics disabled\n", c.DiagLogPath)
		c.DiagLogPath = ""
	}
}

// Default returns a Config populated with sensible defaults. This is used
// as a fallback when loading the configuration file fails, and to seed
// Load's per-key viper defaults.
func Default() *Config {
	return &Config{
		HistoryFile:     filepath.Join(os.Getenv("HOME"), ".astrashell_history"),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		DiagLogPath:     "",
		LeakCheckEvery:  20,
	}
}

package config

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/pocketcalc/internal/errors"
)

func TestParseConfig_Defaults(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := ParseConfig("pocketcalc", nil, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AppConfig{ShutdownTimeout: DefaultShutdownTimeout}
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want AppConfig
	}{
		{
			name: "keys quiet",
			args: []string{"-keys", "7+3=", "-q"},
			want: AppConfig{Keys: "7+3=", Quiet: true, ShutdownTimeout: DefaultShutdownTimeout},
		},
		{
			name: "tui verbose no-color",
			args: []string{"-tui", "-verbose", "-no-color"},
			want: AppConfig{TUI: true, Verbose: true, NoColor: true, ShutdownTimeout: DefaultShutdownTimeout},
		},
		{
			name: "serve with timeout",
			args: []string{"-serve", ":8080", "-shutdown-timeout", "2s"},
			want: AppConfig{ServeAddr: ":8080", ShutdownTimeout: 2 * time.Second},
		},
		{
			name: "completion",
			args: []string{"-completion", "zsh"},
			want: AppConfig{Completion: "zsh", ShutdownTimeout: DefaultShutdownTimeout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg, err := ParseConfig("pocketcalc", tt.args, &buf)
			if err != nil {
				t.Fatalf("unexpected error: %v (output %s)", err, buf.String())
			}
			if cfg != tt.want {
				t.Errorf("ParseConfig(%v) = %+v, want %+v", tt.args, cfg, tt.want)
			}
		})
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig bool
	}{
		{"exclusive modes", []string{"-keys", "1", "-tui"}, true},
		{"bad address", []string{"-serve", "8080"}, true},
		{"zero timeout", []string{"-serve", ":1", "-shutdown-timeout", "0s"}, true},
		{"unknown shell", []string{"-completion", "tcsh"}, true},
		{"positional args", []string{"7+3="}, true},
		{"unknown flag", []string{"-nope"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := ParseConfig("pocketcalc", tt.args, &buf)
			if err == nil {
				t.Fatal("expected an error")
			}
			var cfgErr apperrors.ConfigError
			if got := errors.As(err, &cfgErr); got != tt.wantConfig {
				t.Errorf("errors.As(ConfigError) = %v, want %v (err %v)", got, tt.wantConfig, err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("pocketcalc", []string{"-h"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(buf.String(), "Usage: pocketcalc") {
		t.Errorf("usage not printed, got: %s", buf.String())
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"KEYS", "2*21=")
	t.Setenv(EnvPrefix+"QUIET", "yes")
	t.Setenv(EnvPrefix+"SHUTDOWN_TIMEOUT", "9s")

	var buf bytes.Buffer
	cfg, err := ParseConfig("pocketcalc", nil, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Keys != "2*21=" || !cfg.Quiet || cfg.ShutdownTimeout != 9*time.Second {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestParseConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"KEYS", "1+1=")
	t.Setenv(EnvPrefix+"VERBOSE", "true")

	var buf bytes.Buffer
	cfg, err := ParseConfig("pocketcalc", []string{"-keys", "2+2=", "-v=false"}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Keys != "2+2=" {
		t.Errorf("Keys = %q, want flag value %q", cfg.Keys, "2+2=")
	}
	if cfg.Verbose {
		t.Error("Verbose should keep the explicit flag value false")
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true}, {"1", false, true}, {"YES", false, true},
		{"false", true, false}, {"0", true, false}, {"No", true, false},
		{"maybe", true, true}, {"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

// log/log_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, test := range []struct {
		s     string
		level slog.Level
		err   bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	} {
		lvl, err := ParseLevel(test.s)
		if lvl != test.level {
			t.Errorf("%s: got level %v, expected %v", test.s, lvl, test.level)
		}
		if (err != nil) != test.err {
			t.Errorf("%s: got error %v, expected error %v", test.s, err, test.err)
		}
	}
}

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// None of these should crash.
	lg.Debug("debug")
	lg.Debugf("debug %d", 1)
	lg.Info("info")
	lg.Infof("info %d", 2)
	if lg.With("a", 1) != nil {
		t.Errorf("With on a nil logger should return nil")
	}
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	lg := New("debug", dir)
	lg.Info("glider launched", slog.Int("id", 7))
	lg.Debugf("tick %d", 12)

	b, err := os.ReadFile(filepath.Join(dir, "skyglide.slog"))
	if err != nil {
		t.Fatalf("unable to read log: %v", err)
	}
	s := string(b)
	for _, want := range []string{"glider launched", "tick 12", "callstack", "System information"} {
		if !strings.Contains(s, want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestCallstack(t *testing.T) {
	fr := Callstack(nil)
	if len(fr) == 0 {
		t.Fatalf("empty callstack")
	}
	for _, f := range fr {
		if f.File == "" || f.Line == 0 {
			t.Errorf("incomplete frame %+v", f)
		}
	}
}

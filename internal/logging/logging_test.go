package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	log, cleanup := New(path, false)
	log.Infow("starting", "answer", 42)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"starting"`) {
		t.Fatalf("expected log entry in file, got %q", s)
	}
	if !strings.Contains(s, `"session"`) {
		t.Fatalf("expected session field in entry, got %q", s)
	}
}

func TestNew_DebugLowersLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, cleanup := New(path, true)
	log.Debugw("drift details")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "drift details") {
		t.Fatalf("expected debug entry in file, got %q", string(data))
	}
}

func TestNew_UnwritableFileFallsBack(t *testing.T) {
	// A directory path cannot be opened as a file; the logger must still
	// come up rather than fail startup.
	log, cleanup := New(t.TempDir(), false)
	defer cleanup()
	log.Infow("still alive")
}

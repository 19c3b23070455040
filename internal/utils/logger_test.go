package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "explainer.out")

	l, err := NewLogger(logPath)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	l.Warning("pattern file %s unreadable", ".gitignore")
	l.Debug("compiled %d patterns", 3)
	l.Error("upload failed")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"[WARN] ", "pattern file .gitignore unreadable", "[DEBUG] ", "compiled 3 patterns", "[ERROR] ", "upload failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestInit_DebugDisabled(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "explainer.out")

	l := Init(logPath, false)
	Debug("hidden")
	Warning("shown")
	_ = l.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug output written while disabled:\n%s", data)
	}
	if !strings.Contains(string(data), "shown") {
		t.Errorf("warning output missing:\n%s", data)
	}
}

func TestLogger_CloseTwice(t *testing.T) {
	l, err := NewLogger(filepath.Join(t.TempDir(), "x.out"))
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

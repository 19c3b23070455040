package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFSWatcher_ReportsPatternFileChange(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	changes := make(chan ChangeEvent, 4)
	w, err := NewFSWatcher(20*time.Millisecond, func(ev ChangeEvent) {
		changes <- ev
	})
	if err != nil {
		t.Fatalf("NewFSWatcher() error = %v", err)
	}
	if err := w.WatchRecursive(root); err != nil {
		t.Fatalf("WatchRecursive() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(root, "sub", ".gitignore"), []byte("*.log\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-changes:
		if !ev.IsPatternFile {
			t.Errorf("event = %+v, want pattern file change", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event received")
	}
}

func TestFSWatcher_StopsOnCancel(t *testing.T) {
	w, err := NewFSWatcher(0, nil)
	if err != nil {
		t.Fatalf("NewFSWatcher() error = %v", err)
	}
	if err := w.WatchRecursive(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

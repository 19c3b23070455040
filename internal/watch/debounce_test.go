package watch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidEvents(t *testing.T) {
	var (
		mu    sync.Mutex
		count int
		last  ChangeEvent
	)
	d := NewDebouncer(50*time.Millisecond, func(ev ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		count++
		last = ev
	})
	defer d.Stop()

	for _, p := range []string{"a.go", "b.go", "c.go"} {
		d.Add(ChangeEvent{Path: p, ChangeType: "write"})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
	if last.Path != "c.go" {
		t.Errorf("callback got %q, want the last event c.go", last.Path)
	}
}

func TestDebouncer_KeepsPatternFileFlag(t *testing.T) {
	got := make(chan ChangeEvent, 1)
	d := NewDebouncer(30*time.Millisecond, func(ev ChangeEvent) { got <- ev })
	defer d.Stop()

	d.Add(ChangeEvent{Path: ".gitignore", ChangeType: "write", IsPatternFile: true})
	d.Add(ChangeEvent{Path: "main.go", ChangeType: "write"})

	select {
	case ev := <-got:
		if ev.Path != "main.go" || !ev.IsPatternFile {
			t.Errorf("event = %+v, want main.go marked as pattern-file change", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("callback not called")
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func(ChangeEvent) {
		count.Add(1)
	})

	d.Add(ChangeEvent{Path: "a.go"})
	d.Stop()
	d.Add(ChangeEvent{Path: "b.go"})
	time.Sleep(100 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected no callback after Stop, got %d", got)
	}
}

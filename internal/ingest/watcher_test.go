package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/inbox/INV-2025-051.pdf", true},
		{"/inbox/INV-2025-051.PDF", true},
		{"/inbox/notes.txt", false},
		{"/inbox/scan.jpg", false},
		{"/inbox/noext", false},
	}
	for _, c := range cases {
		if got := allowed(c.path); got != c.want {
			t.Errorf("allowed(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestWatchInboxInitialScan(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "INV-2025-051.pdf")
	for _, f := range []string{pdf, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(f, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := WatchInbox(ctx, InboxConfig{Roots: []string{dir}, InitialScan: true}, nil)
	if err != nil {
		t.Fatalf("WatchInbox: %v", err)
	}

	select {
	case path := <-events:
		if path != pdf {
			t.Errorf("emitted %q, want %q", path, pdf)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}

	// only the pdf qualifies; cancelling must close the channel
	cancel()
	select {
	case path, ok := <-events:
		if ok {
			t.Errorf("unexpected extra event %q", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel did not close after cancel")
	}
}

// A bursty inbox with a short debounce exercises the timer flush path
// against the event loop; run with -race to catch regressions there.
func TestWatchInboxDebouncedBurst(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := WatchInbox(ctx, InboxConfig{Roots: []string{dir}, Debounce: 2 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("WatchInbox: %v", err)
	}

	want := map[string]bool{}
	for i := 0; i < 40; i++ {
		p := filepath.Join(dir, fmt.Sprintf("INV-2025-%03d.pdf", i))
		want[p] = false
		if err := os.WriteFile(p, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.After(5 * time.Second)
	remaining := len(want)
	for remaining > 0 {
		select {
		case p := <-events:
			if seen, ok := want[p]; ok && !seen {
				want[p] = true
				remaining--
			}
		case <-deadline:
			t.Fatalf("%d of %d files never emitted", remaining, len(want))
		}
	}
}

func TestWatchInboxRequiresRoots(t *testing.T) {
	_, _, err := WatchInbox(context.Background(), InboxConfig{}, nil)
	if err == nil {
		t.Fatal("WatchInbox with no roots succeeded")
	}
}

package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/reconcile/internal/config"
)

// syncBuffer is a bytes.Buffer safe for one writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q:\n%s", want, b.String())
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", beforeYAML)

	cfg := config.New()
	cfg.Log.Level = "error"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out, errOut syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, &out, &errOut, cfg, path, true)
	}()

	waitFor(t, &out, "Result: <ul><li>one</li><li>two</li><li>three</li></ul>")

	// An invalid version is reported and skipped.
	writeFile(t, dir, "tree.yaml", "sel: div\nchildren: []\n")
	waitFor(t, &errOut, "R010")

	writeFile(t, dir, "tree.yaml", afterYAML)
	waitFor(t, &out, "Result: <ul><li>three</li><li>one</li><li>four</li></ul>")

	got := out.String()
	if !strings.Contains(got, "--- "+path+" #2") {
		t.Errorf("second report header missing:\n%s", got)
	}
	if !strings.Contains(got, "remove <li key=2>") {
		t.Errorf("second report should be patched against the first tree:\n%s", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not stop after cancel")
	}
}

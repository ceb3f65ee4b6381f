package cli

import (
	"context"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/modcheck/pkg/source"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	root, err := source.NewRoot(dir, source.WithSkip("node_modules"))
	if err != nil {
		t.Fatalf("NewRoot() error: %v", err)
	}
	p := func(rel string) string { return filepath.Join(root.Path(), filepath.FromSlash(rel)) }

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"source write", fsnotify.Event{Name: p("a/index.ts"), Op: fsnotify.Write}, true},
		{"source create", fsnotify.Event{Name: p("a/new.ts"), Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: p("a/index.ts"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: p("README.md"), Op: fsnotify.Write}, false},
		{"skipped folder", fsnotify.Event{Name: p("node_modules/x/index.ts"), Op: fsnotify.Write}, false},
		{"directory removed", fsnotify.Event{Name: p("a"), Op: fsnotify.Remove}, true},
		{"directory write", fsnotify.Event{Name: p("a"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(root, tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := cleanTree(t)
	root, err := source.NewRoot(dir, source.WithSkip("node_modules"))
	if err != nil {
		t.Fatalf("NewRoot() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var runs atomic.Int32
	first := make(chan struct{})
	rerun := make(chan struct{})
	c := New(io.Discard, LogInfo)

	done := make(chan error, 1)
	go func() {
		done <- c.watch(ctx, root, func(context.Context) {
			switch runs.Add(1) {
			case 1:
				close(first)
			case 2:
				close(rerun)
			}
		})
	}()

	<-first
	write(t, dir, "a/extra.ts", "export const E = 1;\n")

	select {
	case <-rerun:
	case <-ctx.Done():
		t.Fatal("watch did not re-run after a change")
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("watch() = %v, want context.Canceled", err)
	}
}

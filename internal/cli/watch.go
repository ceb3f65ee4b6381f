package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/modcheck/pkg/source"
)

// watchDebounce coalesces bursts of events (editors, git checkouts) into
// one re-run.
const watchDebounce = 250 * time.Millisecond

// watch calls run once, then again after every relevant change under root,
// until ctx is cancelled. Each run re-scans the whole tree.
func (c *CLI) watch(ctx context.Context, root source.Root, run func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := watchTree(w, root, root.Path()); err != nil {
		return err
	}

	run(ctx)
	c.Logger.Info("Watching for changes", "root", root.Path())

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(root, ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, root, ev.Name); err != nil {
						c.Logger.Warn("cannot watch directory", "path", ev.Name, "error", err)
					}
				}
			}
			c.Logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			run(ctx)
		}
	}
}

// watchTree adds dir and every non-skipped directory below it.
func watchTree(w *fsnotify.Watcher, root source.Root, dir string) error {
	skip := root.Skip()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root.Path() && slices.Contains(skip, d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether ev can change the analysis result.
func relevant(root source.Root, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	rel, err := filepath.Rel(root.Path(), ev.Name)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if slices.Contains(root.Skip(), seg) {
			return false
		}
	}
	base := filepath.Base(ev.Name)
	if filepath.Ext(base) == root.Layout().Extension {
		return true
	}
	// Directory renames and removals move whole subtrees.
	return filepath.Ext(base) == "" && (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename))
}

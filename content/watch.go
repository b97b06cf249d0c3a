package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of editor writes into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watch calls onChange after markdown files under dir are created, written,
// renamed or removed. Events arriving within debounce of each other produce
// one call. Directories created while watching are added. Watch blocks
// until ctx is done.
func Watch(ctx context.Context, dir string, debounce time.Duration, log *slog.Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := addTree(fsw, dir); err != nil {
		return err
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fsw, event.Name); err != nil {
						log.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if !relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Debug("content changed, reloading", "dir", dir)
			onChange()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("content watcher error", "error", err)
		}
	}
}

func relevant(e fsnotify.Event) bool {
	if !strings.HasSuffix(e.Name, ".md") {
		return false
	}
	return e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename)
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(p)
		}
		return nil
	})
}

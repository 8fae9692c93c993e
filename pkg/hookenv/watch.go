package hookenv

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch runs an fsnotify-backed daemon that calls invalidate whenever
// one of paths changes, for long-lived shells where polling on every
// prompt is wasteful. The stat-based fast path in FastPathEligible
// remains the default; this is strictly an optional accelerant layered
// on top.
func Watch(ctx context.Context, paths []string, invalidate func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) != 0 {
				invalidate(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("fsnotify watch error: %w", err)
			}
		}
	}
}

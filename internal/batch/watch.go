package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the driver running after the initial scan, dispatching files
// as they appear in dir. It returns when ctx is cancelled, after in-flight
// files finish. Watch-mode results are logged but not aggregated into a
// report, since the run has no natural end.
func (d *Driver) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}

	d.record(ctx, "Watching %s for new files (extensions: %v)", dir, d.extensions)

	sem := newSemaphore(d.workers)
	var wg sync.WaitGroup
	seq := 0

	for {
		select {
		case <-ctx.Done():
			d.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			wg.Wait()
			d.record(ctx, "Watch stopped.")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !d.eligible(event.Name) {
				d.logger.Debug(ctx, "Ignoring ineligible file: %s", event.Name)
				continue
			}

			d.record(ctx, "New file detected: %s", event.Name)

			// Small delay so the file is fully written before dispatch.
			time.Sleep(500 * time.Millisecond)

			if err := sem.acquire(ctx); err != nil {
				wg.Wait()
				return err
			}
			seq++
			wg.Add(1)
			go func(n int, path string) {
				defer wg.Done()
				defer sem.release()
				d.processOne(ctx, n, n, path)
			}(seq, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			d.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

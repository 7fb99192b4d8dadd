package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/timerdiv/internal/logger"
)

// DefaultWatchInterval is the minimum time between two change notifications.
const DefaultWatchInterval = 250 * time.Millisecond

// Watcher reports changes to a single file.
//
// The parent directory is watched rather than the file itself: editors
// commonly save by writing a temporary file and renaming it over the
// original, which would silently end a watch on the old inode.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	changes chan struct{}
}

// Watch starts watching path and returns a Watcher whose Changes channel
// receives a value after the file is created, written or replaced.
// Bursts of events are coalesced: at most one notification is delivered
// per interval and it always follows the last event of the burst.
// The watcher stops when ctx is cancelled.
func Watch(ctx context.Context, path string, interval time.Duration) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		changes: make(chan struct{}, 1),
	}
	go w.run(ctx)

	logger.Debug("Watching %s", abs)
	return w, nil
}

// Changes returns the notification channel. It is closed when the
// watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.changes)
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error on %s: %v", w.path, err)
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.handleFsEvent(event) {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.drain()
			w.notify()
		}
	}
}

// handleFsEvent reports whether event is a content change of the watched
// file. Permission changes and other files in the directory are ignored.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

// drain discards events already queued; the notification sent next
// covers them.
func (w *Watcher) drain() {
	for {
		select {
		case _, ok := <-w.fsw.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// notify delivers a change without blocking; a pending notification
// already covers this one.
func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

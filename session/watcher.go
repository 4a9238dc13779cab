package session

import (
	"context"
	"sync"
	"time"

	"github.com/gabyel-dev/CafeRealitea/api"
)

// Checker revalidates the session cookie server-side.
type Checker interface {
	CheckSession(ctx context.Context) (bool, error)
}

// Watcher re-checks the session on a fixed interval and fires onExpired once
// when the server stops honoring it. Transient network errors are ignored;
// only an explicit invalid answer or a 401/403 counts as expiry.
type Watcher struct {
	checker   Checker
	interval  time.Duration
	onExpired func()

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewWatcher(checker Checker, interval time.Duration, onExpired func()) *Watcher {
	return &Watcher{
		checker:   checker,
		interval:  interval,
		onExpired: onExpired,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return
		case <-ticker.C:
			if w.expired() {
				w.onExpired()
				return
			}
		}
	}
}

func (w *Watcher) expired() bool {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	valid, err := w.checker.CheckSession(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			return true
		}
		log.Debugf("Session check failed, keeping session: %v", err)
		return false
	}
	return !valid
}

// Stop cancels the watcher and waits for the loop to exit, so no expiry
// callback can fire after Stop returns.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
		<-w.done
	})
}

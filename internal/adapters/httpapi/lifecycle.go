package httpapi

import (
	"context"
	"sync"
	"time"
)

// Lifecycle tracks request activity and reports when the server has been
// idle for longer than its timeout. A zero timeout never expires.
type Lifecycle struct {
	timeout time.Duration
	started time.Time

	mu       sync.Mutex
	last     time.Time
	inFlight int
}

// NewLifecycle creates a Lifecycle whose idle period starts now.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	now := time.Now()
	return &Lifecycle{
		timeout: timeout,
		started: now,
		last:    now,
	}
}

// Begin marks the start of a request. The server is never idle while a
// request is in flight.
func (l *Lifecycle) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight++
	l.last = time.Now()
}

// End marks the end of a request and restarts the idle period.
func (l *Lifecycle) End() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight--
	l.last = time.Now()
}

// Uptime returns the time since the Lifecycle was created.
func (l *Lifecycle) Uptime() time.Duration {
	return time.Since(l.started)
}

// Remaining returns how long until the idle timeout fires.
// It reports false when the timeout is disabled.
func (l *Lifecycle) Remaining() (time.Duration, bool) {
	if l.timeout <= 0 {
		return 0, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remainingLocked(), true
}

func (l *Lifecycle) remainingLocked() time.Duration {
	if l.inFlight > 0 {
		return l.timeout
	}
	return max(l.timeout-time.Since(l.last), 0)
}

// Wait blocks until the server has been idle for the full timeout or ctx is
// done. It reports true only when the idle timeout fired.
func (l *Lifecycle) Wait(ctx context.Context) bool {
	if l.timeout <= 0 {
		<-ctx.Done()
		return false
	}

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			l.mu.Lock()
			remaining := l.remainingLocked()
			idle := l.inFlight == 0 && remaining <= 0
			l.mu.Unlock()
			if idle {
				return true
			}
			timer.Reset(remaining)
		}
	}
}

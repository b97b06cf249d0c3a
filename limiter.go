package ogsite

import (
	"sync"
	"time"
)

// RenderLimiter caps how many preview cards a single IP can have rendered
// per window. Cache hits are not counted.
type RenderLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewRenderLimiter creates a RenderLimiter that allows max renders per
// window. Call Stop to end its cleanup goroutine.
func NewRenderLimiter(max int, window time.Duration) *RenderLimiter {
	l := &RenderLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RenderLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip, hits := range l.hits {
				if kept := l.prune(hits); len(kept) == 0 {
					delete(l.hits, ip)
				} else {
					l.hits[ip] = kept
				}
			}
			l.mu.Unlock()
		}
	}
}

// prune drops hits older than the window. Callers hold mu.
func (l *RenderLimiter) prune(hits []time.Time) []time.Time {
	cutoff := l.now().Add(-l.window)
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow reports whether ip may render now and, if so, records the render.
func (l *RenderLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.prune(l.hits[ip])
	if len(kept) >= l.max {
		l.hits[ip] = kept
		return false
	}
	l.hits[ip] = append(kept, l.now())
	return true
}

// Remaining returns how many renders ip has left in the current window.
func (l *RenderLimiter) Remaining(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.prune(l.hits[ip])
	l.hits[ip] = kept
	return max(0, l.max-len(kept))
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *RenderLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Package ratelimit implements per-client fixed-window request admission.
package ratelimit

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Config controls admission behavior.
type Config struct {
	Max           int           // requests per window
	Window        time.Duration // window length
	SweepInterval time.Duration // expired-window sweep cadence
	MaxKeys       int           // cap on tracked identifiers
}

// DefaultConfig matches the documented defaults: 100 requests per 60s.
var DefaultConfig = Config{
	Max:           100,
	Window:        60 * time.Second,
	SweepInterval: 30 * time.Second,
	MaxKeys:       10000,
}

type window struct {
	count int
	start time.Time
}

// Limiter tracks one fixed window per client identifier. Windows are created
// lazily, reset on expiry, and garbage-collected by a background sweep.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*window
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time // overridable in tests
}

// New starts a limiter and its sweep goroutine.
func New(cfg Config) *Limiter {
	if cfg.Max <= 0 {
		cfg.Max = DefaultConfig.Max
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig.Window
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultConfig.SweepInterval
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = DefaultConfig.MaxKeys
	}
	l := &Limiter{
		cfg:     cfg,
		windows: make(map[string]*window),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go l.sweepLoop()
	return l
}

// Admit decides whether a request from key may proceed. On rejection it
// returns the whole seconds to wait before the window resets.
func (l *Limiter) Admit(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.cfg.Window {
		if !ok && len(l.windows) >= l.cfg.MaxKeys {
			// Tracking table full (likely spoofed identifiers). Admit
			// untracked rather than reject legitimate traffic.
			return true, 0
		}
		l.windows[key] = &window{count: 1, start: now}
		return true, 0
	}

	w.count++
	if w.count > l.cfg.Max {
		remaining := l.cfg.Window - now.Sub(w.start)
		retryAfter := int(math.Ceil(remaining.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}
	return true, 0
}

// Len reports the number of tracked identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Close stops the sweep goroutine.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// sweepLoop periodically drops expired windows to bound memory.
func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	now := l.now()
	removed := 0
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.cfg.Window {
			delete(l.windows, key)
			removed++
		}
	}
	remaining := len(l.windows)
	l.mu.Unlock()

	if removed > 0 {
		slog.Debug("ratelimit: swept expired windows",
			slog.Int("removed", removed), slog.Int("remaining", remaining))
	}
}

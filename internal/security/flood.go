package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type floodEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	warned   bool
}

// FloodGuard limits how often one hostmask can trigger automatic title
// fetches. Each hostmask gets a token bucket refilled at perMinute tokens per
// minute holding at most burst tokens.
type FloodGuard struct {
	perMinute int
	burst     int
	now       func() time.Time

	mutex   sync.Mutex
	entries map[string]*floodEntry
}

// NewFloodGuard creates a guard. A perMinute of 0 disables limiting.
func NewFloodGuard(perMinute, burst int) *FloodGuard {
	if burst <= 0 {
		burst = 1
	}
	return &FloodGuard{
		perMinute: perMinute,
		burst:     burst,
		now:       time.Now,
		entries:   make(map[string]*floodEntry),
	}
}

// Enabled reports whether the guard limits anything.
func (f *FloodGuard) Enabled() bool {
	return f.perMinute > 0
}

// Allow takes a token for hostmask. The second return value is true the first
// time a hostmask is refused since it was last allowed, so callers can log
// once instead of on every message.
func (f *FloodGuard) Allow(hostmask string) (allowed bool, firstRefusal bool) {
	if !f.Enabled() {
		return true, false
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	now := f.now()
	entry, exists := f.entries[hostmask]
	if !exists {
		entry = &floodEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(f.perMinute)/60), f.burst),
		}
		f.entries[hostmask] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		entry.warned = false
		return true, false
	}

	first := !entry.warned
	entry.warned = true
	return false, first
}

// Prune forgets hostmasks that have been quiet for longer than idle and
// returns how many were removed.
func (f *FloodGuard) Prune(idle time.Duration) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	cutoff := f.now().Add(-idle)
	removed := 0
	for hostmask, entry := range f.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(f.entries, hostmask)
			removed++
		}
	}
	return removed
}

// Tracked returns the number of hostmasks currently tracked.
func (f *FloodGuard) Tracked() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.entries)
}

package urltitle

import (
	"context"
	"regexp"
	"sync"

	"titlebot/internal/logger"
)

// Callback lets another component take over URLs it knows better than a
// generic title fetch.
type Callback interface {
	// Match returns the submatches for url, or nil if the callback does not want it.
	Match(url string) []string
	Handle(ctx context.Context, out Replier, trigger Trigger, url string, match []string)
}

// CallbackFunc handles a URL claimed by a PatternCallback.
type CallbackFunc func(ctx context.Context, out Replier, trigger Trigger, url string, match []string)

// PatternCallback claims URLs matching Pattern.
type PatternCallback struct {
	Pattern *regexp.Regexp
	Fn      CallbackFunc
}

func (p *PatternCallback) Match(url string) []string {
	return p.Pattern.FindStringSubmatch(url)
}

func (p *PatternCallback) Handle(ctx context.Context, out Replier, trigger Trigger, url string, match []string) {
	if p.Fn != nil {
		p.Fn(ctx, out, trigger, url, match)
	}
}

type namedCallback struct {
	owner    string
	callback Callback
}

// Registry holds the exclusion patterns and the URL callbacks.
// Callbacks are checked in the order they were registered.
type Registry struct {
	excludes  []*regexp.Regexp
	callbacks []namedCallback
	mu        sync.RWMutex
}

// NewRegistry creates a registry with a fixed set of exclusion patterns.
func NewRegistry(excludes []*regexp.Regexp) *Registry {
	return &Registry{excludes: excludes}
}

// Register appends a callback owned by owner.
func (r *Registry) Register(owner string, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, namedCallback{owner: owner, callback: cb})
	logger.Debugf("Registered URL callback for %s", owner)
}

// Unregister removes every callback owned by owner and returns how many were removed.
func (r *Registry) Unregister(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.callbacks[:0]
	removed := 0
	for _, nc := range r.callbacks {
		if nc.owner == owner {
			removed++
			continue
		}
		kept = append(kept, nc)
	}
	// clear the tail so dropped callbacks can be collected
	for i := len(kept); i < len(r.callbacks); i++ {
		r.callbacks[i] = namedCallback{}
	}
	r.callbacks = kept
	return removed
}

// Len returns the number of registered callbacks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callbacks)
}

// Excluded reports whether url matches any exclusion pattern.
func (r *Registry) Excluded(url string) bool {
	for _, re := range r.excludes {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// Claimed reports whether url is excluded or matched by a callback, without
// running any callback.
func (r *Registry) Claimed(url string) bool {
	if r.Excluded(url) {
		return true
	}

	for _, nc := range r.snapshot() {
		if nc.callback.Match(url) != nil {
			return true
		}
	}
	return false
}

// snapshot copies the callbacks so plugin code never runs under the lock.
func (r *Registry) snapshot() []namedCallback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	callbacks := make([]namedCallback, len(r.callbacks))
	copy(callbacks, r.callbacks)
	return callbacks
}

// Dispatch runs every callback matching url, in registration order, and
// reports whether url was claimed.
func (r *Registry) Dispatch(ctx context.Context, out Replier, trigger Trigger, url string) bool {
	claimed := r.Excluded(url)

	for _, nc := range r.snapshot() {
		match := nc.callback.Match(url)
		if match == nil {
			continue
		}
		logger.Debugf("URL %s claimed by %s", url, nc.owner)
		nc.callback.Handle(ctx, out, trigger, url, match)
		claimed = true
	}
	return claimed
}

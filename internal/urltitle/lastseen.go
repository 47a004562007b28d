package urltitle

import (
	"strings"
	"sync"
)

// LastSeenStore remembers the most recent URL per channel.
type LastSeenStore interface {
	Get(channel string) (string, bool)
	Set(channel, url string)
}

// MemoryLastSeen keeps one URL per channel in memory. Channel names are
// compared case-insensitively.
type MemoryLastSeen struct {
	urls map[string]string
	mu   sync.RWMutex
}

func NewMemoryLastSeen() *MemoryLastSeen {
	return &MemoryLastSeen{urls: make(map[string]string)}
}

func (m *MemoryLastSeen) Get(channel string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, ok := m.urls[strings.ToLower(channel)]
	return url, ok
}

func (m *MemoryLastSeen) Set(channel, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls[strings.ToLower(channel)] = url
}

package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestGuard(perMinute, burst int) (*FloodGuard, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	guard := NewFloodGuard(perMinute, burst)
	guard.now = func() time.Time { return now }
	return guard, &now
}

func TestFloodGuardBurstThenRefill(t *testing.T) {
	guard, now := newTestGuard(6, 2)
	const mask = "alice!a@example.net"

	allowed, _ := guard.Allow(mask)
	assert.True(t, allowed)
	allowed, _ = guard.Allow(mask)
	assert.True(t, allowed)

	allowed, first := guard.Allow(mask)
	assert.False(t, allowed)
	assert.True(t, first)

	allowed, first = guard.Allow(mask)
	assert.False(t, allowed)
	assert.False(t, first, "only the first refusal is reported")

	// six per minute refills one token every ten seconds
	*now = now.Add(10 * time.Second)
	allowed, _ = guard.Allow(mask)
	assert.True(t, allowed)

	allowed, first = guard.Allow(mask)
	assert.False(t, allowed)
	assert.True(t, first)
}

func TestFloodGuardIsPerHostmask(t *testing.T) {
	guard, _ := newTestGuard(1, 1)

	allowed, _ := guard.Allow("a!a@a")
	assert.True(t, allowed)
	allowed, _ = guard.Allow("a!a@a")
	assert.False(t, allowed)

	allowed, _ = guard.Allow("b!b@b")
	assert.True(t, allowed)
	assert.Equal(t, 2, guard.Tracked())
}

func TestFloodGuardDisabled(t *testing.T) {
	guard, _ := newTestGuard(0, 1)
	assert.False(t, guard.Enabled())
	for i := 0; i < 100; i++ {
		allowed, _ := guard.Allow("x!x@x")
		assert.True(t, allowed)
	}
	assert.Zero(t, guard.Tracked())
}

func TestFloodGuardPrune(t *testing.T) {
	guard, now := newTestGuard(6, 4)
	guard.Allow("old!o@o")
	*now = now.Add(time.Hour)
	guard.Allow("new!n@n")

	assert.Equal(t, 1, guard.Prune(30*time.Minute))
	assert.Equal(t, 1, guard.Tracked())
}

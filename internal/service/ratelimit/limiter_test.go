package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("sweep", 1, 0), "first call takes the only token")
	assert.False(t, l.Allow("sweep", 1, 0), "bucket is empty until it refills")
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("a", 1, 0))
	assert.False(t, l.Allow("a", 1, 0))
	assert.True(t, l.Allow("b", 1, 0), "a drained bucket does not affect other keys")
}

func TestAllowRefills(t *testing.T) {
	l := New()

	// drain, then wait out a refill at 1000 tokens/sec
	assert.True(t, l.Allow("k", 1, 1000))
	time.Sleep(5 * time.Millisecond)
	assert.True(t, l.Allow("k", 1, 1000))
}

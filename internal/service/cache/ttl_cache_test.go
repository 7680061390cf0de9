package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache()
	require.NoError(t, c.SetBytes("k", []byte("v"), time.Minute))

	b, ok, err := c.GetBytes("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)
}

func TestTTLCacheMiss(t *testing.T) {
	c := NewTTLCache()
	_, ok, err := c.GetBytes("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	require.NoError(t, c.SetBytes("k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.GetBytes("k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are gone")
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", "v", 0)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheCallsLoader(t *testing.T) {
	c, err := NewFromURL("")
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	calls := 0
	loader := func() (string, error) {
		calls++
		return "<p>rendered</p>", nil
	}

	for i := 0; i < 2; i++ {
		out, err := c.Fetch(context.Background(), PostHTMLKey(1, 1), DefaultTTL, loader)
		require.NoError(t, err)
		assert.Equal(t, "<p>rendered</p>", out)
	}
	assert.Equal(t, 2, calls)

	// No-ops on a disabled cache.
	c.Invalidate(context.Background(), PostHTMLKey(1, 1))
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestBadRedisURL(t *testing.T) {
	_, err := NewFromURL("://nope")
	assert.Error(t, err)
}

func TestPostHTMLKey(t *testing.T) {
	assert.Equal(t, "inkwell:post:html:42:v7", PostHTMLKey(42, 7))
}

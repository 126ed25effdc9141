package engine

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCacheEvicts(t *testing.T) {
	c := NewSessionCache(2)

	a, b, d := &tls.ClientSessionState{}, &tls.ClientSessionState{}, &tls.ClientSessionState{}
	c.Put("a", a)
	c.Put("b", b)

	// Touch a so b becomes the eviction candidate.
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	c.Put("d", d)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("d")
	assert.True(t, ok)
}

func TestSessionCachePutNilRemoves(t *testing.T) {
	c := NewSessionCache(0)
	c.Put("k", &tls.ClientSessionState{})
	c.Put("k", nil)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

package engine

import (
	"crypto/tls"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSessionCacheSize is used by NewSessionCache for sizes <= 0.
const DefaultSessionCacheSize = 64

type sessionCache struct {
	entries *lru.Cache[string, *tls.ClientSessionState]
}

// NewSessionCache returns a client session cache that evicts the least
// recently used ticket once size entries are stored. Assign it to
// tls.Config.ClientSessionCache to resume sessions on reconnect.
func NewSessionCache(size int) tls.ClientSessionCache {
	if size <= 0 {
		size = DefaultSessionCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[string, *tls.ClientSessionState](size)
	return &sessionCache{entries: entries}
}

func (c *sessionCache) Get(key string) (*tls.ClientSessionState, bool) {
	return c.entries.Get(key)
}

func (c *sessionCache) Put(key string, cs *tls.ClientSessionState) {
	if cs == nil {
		c.entries.Remove(key)
		return
	}
	c.entries.Add(key, cs)
}

package geoip

import (
	"context"
	"net/netip"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheKey derives the cache key for a client address. IPv4 addresses
// collapse to their /24 block so bursts from one narrow range share a single
// remote lookup; IPv6 addresses use the full literal form. An unparsable
// address is used unchanged.
func CacheKey(addr string) string {
	parsed, err := netip.ParseAddr(addr)
	if err != nil {
		return addr
	}
	if parsed.Is4() {
		o := parsed.As4()
		return strconv.Itoa(int(o[0])) + "." + strconv.Itoa(int(o[1])) + "." + strconv.Itoa(int(o[2])) + ".0"
	}
	return addr
}

// Cache maps cache keys to immutable Records. Entries accumulate for the
// process lifetime; nothing is evicted. Safe for concurrent use: the mutex
// covers every check and insert, and racing misses on one key collapse into
// a single remote call so both callers observe the same stored record.
type Cache struct {
	client *Client

	mu      sync.Mutex
	entries map[string]*Record
	flight  singleflight.Group
}

// NewCache creates an empty cache backed by client.
func NewCache(client *Client) *Cache {
	return &Cache{
		client:  client,
		entries: make(map[string]*Record),
	}
}

// Lookup resolves addr to a Record, performing at most one remote call per
// distinct cache key. A failed or malformed remote response is returned as an
// error and never stored, so a later access with the same key can retry.
func (c *Cache) Lookup(ctx context.Context, addr string) (*Record, error) {
	key := CacheKey(addr)

	c.mu.Lock()
	if rec, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return rec, nil
	}
	c.mu.Unlock()

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		rec, err := c.client.Fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = rec
		c.mu.Unlock()
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// internal/cache/lru.go
//
// Tiny generic LRU cache with optional per-entry expiry.  Used by the
// secrets resolver to keep resolved Vault values for their TTL.  No
// external deps; good for a few thousand entries.  Not safe for
// concurrent use; callers hold their own lock.
package cache

import (
	"container/list"
	"time"
)

// LRU is a least-recently-used cache over comparable keys.
type LRU[K comparable, V any] struct {
	cap  int
	ll   *list.List
	dict map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key K
	val V
	exp time.Time // zero means no expiry
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be >= 1")
	}
	return &LRU[K, V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[K]*list.Element, capacity),
	}
}

// Get retrieves a live value and marks it MRU.  Expired entries are
// evicted on access and reported as a miss.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	ele, hit := c.dict[key]
	if !hit {
		return val, false
	}
	ent := ele.Value.(entry[K, V])
	if !ent.exp.IsZero() && time.Now().After(ent.exp) {
		c.ll.Remove(ele)
		delete(c.dict, key)
		return val, false
	}
	c.ll.MoveToFront(ele)
	return ent.val, true
}

// Add inserts or updates a value with no expiry.
func (c *LRU[K, V]) Add(key K, val V) {
	c.AddWithTTL(key, val, 0)
}

// AddWithTTL inserts or updates a value that expires after ttl.
// ttl <= 0 means the entry never expires.
func (c *LRU[K, V]) AddWithTTL(key K, val V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	if ele, hit := c.dict[key]; hit {
		ele.Value = entry[K, V]{key, val, exp}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(entry[K, V]{key, val, exp})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(entry[K, V]).key)
	}
}

// Len reports current size, counting not-yet-evicted expired entries.
func (c *LRU[K, V]) Len() int { return c.ll.Len() }

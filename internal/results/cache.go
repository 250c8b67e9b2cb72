package results

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// cacheKey renders a SearchRequest into a deterministic key: canonical JSON
// of (query, filters, pagination) hashed with sha256, so two identical
// requests always hit the same cache slot (spec §8 "Filter cache key
// uniqueness").
func cacheKey(req SearchRequest) string {
	// struct field order is fixed at compile time, so json.Marshal's output
	// is already canonical for a given Go type; slices inside Filters are
	// taken in the order given, so the same values listed in a different
	// order produce a different key.
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	key       string
	value     *SearchResponse
	expiresAt time.Time
}

// responseCache is an LRU cache with a per-entry TTL, the same shape as the
// teacher's embedding cache (internal/embeddings.EmbeddingCache): a
// doubly-linked list for recency plus a map for O(1) lookup, both behind one
// mutex.
type responseCache struct {
	mu       sync.Mutex
	ll       *list.List
	items    map[string]*list.Element
	capacity int
	ttl      time.Duration
}

func newResponseCache(capacity int, ttl time.Duration) *responseCache {
	return &responseCache{
		ll:       list.New(),
		items:    map[string]*list.Element{},
		capacity: capacity,
		ttl:      ttl,
	}
}

func (c *responseCache) get(key string) (*SearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.ll.Remove(el)
		delete(c.items, key)
		return nil, false
	}
	c.ll.MoveToFront(el)
	return entry.value, true
}

func (c *responseCache) put(key string, value *SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).value = value
		el.Value.(*cacheEntry).expiresAt = time.Now().Add(c.ttl)
		c.ll.MoveToFront(el)
		return
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: time.Now().Add(c.ttl)}
	el := c.ll.PushFront(entry)
	c.items[key] = el

	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

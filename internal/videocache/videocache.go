// Package videocache implements C2: an LRU of live video players plus
// the DiscardQueue that guarantees a player is never destroyed while a
// frame might still reference it (§3 invariant 2, §4.2, §9).
package videocache

import (
	"container/list"
	"fmt"

	"asapcabinetfe/internal/diag"
	"asapcabinetfe/internal/role"
	"asapcabinetfe/internal/videoplayer"
)

// DefaultCapacity is MAX_VIDEO_CACHE from §4.2.
const DefaultCapacity = 48

// Key builds the cache key per §3: "{backend}_{window_role}_{path}_{W}x{H}".
func Key(backend videoplayer.Backend, r role.Role, path string, w, h int32) string {
	return fmt.Sprintf("%s_%s_%s_%dx%d", backend, r, path, w, h)
}

type entry struct {
	key    string
	player videoplayer.Player
}

// Cache is the LRU of cached (not currently displayed) video players.
type Cache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most-recently-used
	discard  []videoplayer.Player
	log      *diag.Logger
}

// New creates a video cache with the given capacity (0 means DefaultCapacity).
func New(capacity int, logger *diag.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		discard:  make([]videoplayer.Player, 0, capacity*2),
		log:      logger,
	}
}

// Get removes and returns the player for key, if cached. The player is
// moved out of the cache into the caller's ownership (the active slot) —
// per §3 invariant 2 a player is in exactly one of cache/active/discard.
func (c *Cache) Get(key string) (videoplayer.Player, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, key)
	return e.player, true
}

// Put inserts player under key. If key is already cached, the existing
// entry wins and the new player is retired to the DiscardQueue instead
// (§4.2's duplicate-insert rule — defends against two paths hashing to
// the same key).
func (c *Cache) Put(key string, player videoplayer.Player) {
	if _, exists := c.items[key]; exists {
		c.Retire(player)
		return
	}

	el := c.order.PushFront(&entry{key: key, player: player})
	c.items[key] = el
	c.evictIfNeeded()
}

// evictIfNeeded moves the LRU-back player to the DiscardQueue (never
// destroys it inline — destruction under a live frame could race GPU
// submission in the backend, §4.2).
func (c *Cache) evictIfNeeded() {
	for c.order.Len() > c.capacity {
		back := c.order.Back()
		e := back.Value.(*entry)
		c.order.Remove(back)
		delete(c.items, e.key)
		c.Retire(e.player)
		if c.log != nil {
			c.log.Logf(diag.ComponentVideoCache, diag.LevelDebug, "evicted %s to discard queue", e.key)
		}
	}
}

// Retire appends player to the DiscardQueue, bounded at 2*capacity per §3.
func (c *Cache) Retire(player videoplayer.Player) {
	if player == nil {
		return
	}
	limit := c.capacity * 2
	if len(c.discard) >= limit {
		// Queue is saturated (drain_discard() is not being called often
		// enough); destroy the oldest rather than grow unbounded.
		c.discard[0].Destroy()
		c.discard = c.discard[1:]
	}
	c.discard = append(c.discard, player)
}

// DrainDiscard destroys every queued player. Called by the Asset Manager
// at the top of load_table(i), after all active players have been
// stopped, and once more at shutdown.
func (c *Cache) DrainDiscard() {
	for _, p := range c.discard {
		p.Destroy()
	}
	c.discard = c.discard[:0]
}

// ClearAll retires every cached player and drains the discard queue.
// Used at shutdown (cleanup_video_players, §4.3).
func (c *Cache) ClearAll() {
	for el := c.order.Front(); el != nil; el = el.Next() {
		c.discard = append(c.discard, el.Value.(*entry).player)
	}
	c.items = make(map[string]*list.Element)
	c.order = list.New()
	c.DrainDiscard()
}

// Len reports the number of cache-resident (not discarded, not active) players.
func (c *Cache) Len() int {
	return c.order.Len()
}

// DiscardLen reports the number of players pending destruction.
func (c *Cache) DiscardLen() int {
	return len(c.discard)
}

// Keys returns the LRU order as cache keys, most-recent-front (§3 lru_keys).
func (c *Cache) Keys() []string {
	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).key)
	}
	return keys
}

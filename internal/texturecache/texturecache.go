// Package texturecache implements C1: a path-keyed, renderer-bound LRU
// of GPU textures, grounded on ui.go's SDL2 renderer/texture setup
// (CreateTexture, CreateTextureFromSurface) generalised from a
// single streaming texture to an arbitrary-path cache.
package texturecache

import (
	"container/list"
	"sync"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/diag"
)

// DefaultCapacity is MAX_TEXTURE_CACHE from §4.1.
const DefaultCapacity = 100

// Ref is a non-owning borrow of a cached texture. The cache retains
// ownership; callers must never call Texture.Destroy().
type Ref struct {
	Texture *sdl.Texture
	Width   int32
	Height  int32
}

type entry struct {
	path     string
	renderer *sdl.Renderer
	texture  *sdl.Texture
	w, h     int32
	refs     int
}

// Cache is the LRU described by §3/§4.1. It is only ever touched from
// the main thread, so no internal locking is required for correctness;
// the mutex here guards against accidental cross-goroutine use and
// costs nothing on the hot single-threaded path.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element // key -> list element holding *entry
	order    *list.List               // front = most-recently-used
	log      *diag.Logger
}

// New creates a texture cache with the given capacity (0 means
// DefaultCapacity).
func New(capacity int, logger *diag.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		log:      logger,
	}
}

// Get returns a borrowed texture for path on renderer, loading it from
// disk on a cache miss. Returns (nil ref, false) on load failure; the
// failure is logged structurally, never written to stderr raw (§4.1).
func (c *Cache) Get(renderer *sdl.Renderer, path string) (Ref, bool) {
	c.mu.Lock()
	if el, ok := c.items[path]; ok {
		e := el.Value.(*entry)
		if e.renderer == renderer {
			c.order.MoveToFront(el)
			e.refs++
			ref := Ref{Texture: e.texture, Width: e.w, Height: e.h}
			c.mu.Unlock()
			return ref, true
		}
		// Renderer mismatch: stale entry from a destroyed window. Drop it;
		// clear() is the normal path for this (after a Windows reload) but
		// a lazy detection here keeps Get() correct even if clear() was
		// missed for some reason.
		c.order.Remove(el)
		delete(c.items, path)
		e.texture.Destroy()
	}
	c.mu.Unlock()

	surface, err := img.Load(path)
	if err != nil {
		if c.log != nil {
			c.log.Error(diag.ComponentTextureCache, "image decode failed", path, err)
		}
		return Ref{}, false
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		if c.log != nil {
			c.log.Error(diag.ComponentTextureCache, "texture upload failed", path, err)
		}
		return Ref{}, false
	}

	c.mu.Lock()
	e := &entry{path: path, renderer: renderer, texture: texture, w: surface.W, h: surface.H, refs: 1}
	el := c.order.PushFront(e)
	c.items[path] = el
	c.evictIfNeeded()
	c.mu.Unlock()

	return Ref{Texture: texture, Width: surface.W, Height: surface.H}, true
}

// evictIfNeeded drops the LRU-back entry once the cache is over
// capacity, skipping any entry currently borrowed by one or more active
// slots (§3 invariant 1: eviction of a borrowed texture is forbidden).
// Caller must hold c.mu.
func (c *Cache) evictIfNeeded() {
	for c.order.Len() > c.capacity {
		victim := c.findEvictionCandidate()
		if victim == nil {
			return // everything resident is active; cache is over budget but safe
		}
		e := victim.Value.(*entry)
		c.order.Remove(victim)
		delete(c.items, e.path)
		e.texture.Destroy()
	}
}

func (c *Cache) findEvictionCandidate() *list.Element {
	for el := c.order.Back(); el != nil; el = el.Prev() {
		if el.Value.(*entry).refs <= 0 {
			return el
		}
	}
	return nil
}

// Release drops one borrow of path, making it eligible for eviction
// again once no active slot still holds it. A path bound into two
// active slots at once (e.g. a role's image doubling as its wheel
// image) keeps a refcount instead of a single flag, so releasing one
// slot's borrow never evicts a texture the other slot still holds (§3
// invariant 1). Called by the Asset Manager whenever it clears an
// active slot's texture reference.
func (c *Cache) Release(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[path]; ok {
		e := el.Value.(*entry)
		if e.refs > 0 {
			e.refs--
		}
	}
}

// Len reports the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear destroys every cached texture. Used by the Asset Manager after a
// Windows reload, since existing textures belong to destroyed renderers.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.order.Front(); el != nil; el = el.Next() {
		el.Value.(*entry).texture.Destroy()
	}
	c.items = make(map[string]*list.Element)
	c.order = list.New()
}

// Stats is a debug/testing helper exposing the LRU order as paths,
// most-recent-front, matching §3's lru_keys invariant.
func (c *Cache) Stats() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).path)
	}
	return keys
}

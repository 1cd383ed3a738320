package videocache

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/role"
	"asapcabinetfe/internal/videoplayer"
)

type fakePlayer struct {
	id        int
	destroyed bool
}

func (p *fakePlayer) Play() error            { return nil }
func (p *fakePlayer) Stop()                  {}
func (p *fakePlayer) Pause()                 {}
func (p *fakePlayer) Advance() error         { return nil }
func (p *fakePlayer) Texture() *sdl.Texture  { return nil }
func (p *fakePlayer) Size() (int32, int32)   { return 640, 480 }
func (p *fakePlayer) Destroy()               { p.destroyed = true }

var _ videoplayer.Player = (*fakePlayer)(nil)

func TestKeyIsDeterministicAndRoleScoped(t *testing.T) {
	a := Key(videoplayer.BackendVLC, role.Playfield, "/tables/mm.mp4", 640, 480)
	b := Key(videoplayer.BackendVLC, role.Playfield, "/tables/mm.mp4", 640, 480)
	if a != b {
		t.Fatalf("expected deterministic key, got %q and %q", a, b)
	}
	if c := Key(videoplayer.BackendVLC, role.Backglass, "/tables/mm.mp4", 640, 480); c == a {
		t.Fatalf("expected different roles to produce different keys")
	}
	if c := Key(videoplayer.BackendFFmpeg, role.Playfield, "/tables/mm.mp4", 640, 480); c == a {
		t.Fatalf("expected different backends to produce different keys")
	}
}

func TestCachePutGetRoundTrip(t *testing.T) {
	c := New(2, nil)
	p := &fakePlayer{id: 1}
	c.Put("k1", p)

	got, ok := c.Get("k1")
	if !ok || got != p {
		t.Fatalf("expected to retrieve the cached player, got %v, %v", got, ok)
	}
	if c.Len() != 0 {
		t.Fatalf("expected Get to remove the entry from the cache (it is now active), got len %d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, nil)
	p1, p2, p3 := &fakePlayer{id: 1}, &fakePlayer{id: 2}, &fakePlayer{id: 3}

	c.Put("k1", p1)
	c.Put("k2", p2)
	c.Put("k3", p3) // over capacity; k1 is least-recently-used

	if _, ok := c.Get("k1"); ok {
		t.Fatalf("expected k1 to have been evicted")
	}
	if c.DiscardLen() != 1 {
		t.Fatalf("expected the evicted player queued for discard, got %d", c.DiscardLen())
	}
	if _, ok := c.Get("k2"); !ok {
		t.Fatalf("expected k2 to still be cached")
	}
}

func TestRetireAndDrainDiscard(t *testing.T) {
	c := New(4, nil)
	p := &fakePlayer{id: 1}

	c.Retire(p)
	if p.destroyed {
		t.Fatalf("expected Retire to defer destruction until DrainDiscard")
	}

	c.DrainDiscard()
	if !p.destroyed {
		t.Fatalf("expected DrainDiscard to destroy the retired player")
	}
	if c.DiscardLen() != 0 {
		t.Fatalf("expected discard queue empty after drain")
	}
}

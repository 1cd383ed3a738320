package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/render"
	"asapcabinetfe/internal/role"
	"asapcabinetfe/internal/table"
	"asapcabinetfe/internal/videoplayer"
)

// generatedArtSentinel is the cache key prefix §4.3 calls "a sentinel
// string" for the alternative-media fallback player.
const generatedArtSentinel = "generated-art"

// GeneratedArtKey builds the cache key for a role's fallback player, so
// it round-trips through the same video cache as real video players.
func GeneratedArtKey(r role.Role, w, h int32) string {
	return fmt.Sprintf("%s_%s_%dx%d", generatedArtSentinel, r, w, h)
}

// roleText resolves the role-appropriate placeholder text (§4.3 step 4,
// §9 DMD_still_images open question).
func roleText(r role.Role, t *table.Record) string {
	switch r {
	case role.DMD:
		if t.Manufacturer != "" {
			return t.Manufacturer
		}
		return t.Title
	case role.Topper:
		if t.Year != "" {
			return t.Year
		}
		return t.Title
	case role.Backglass:
		return t.Title
	case role.Playfield:
		return "ASAPCabinetFE"
	default:
		return t.Title
	}
}

// generatedArtPlayer is a Player implementation that never decodes real
// video: it either cycles a directory of still frames (dmd_still_images,
// §9/§C.4) at 2 FPS, or shows one synthesized text texture.
type generatedArtPlayer struct {
	w, h     int32
	frames   []*sdl.Texture
	frameIdx int
	lastTick time.Time
	interval time.Duration
}

// newGeneratedArtPlayer loads framesDir's numbered PNGs if present,
// otherwise renders a single text frame via titleRenderer.
func newGeneratedArtPlayer(renderer *sdl.Renderer, titleRenderer *render.TitleRenderer, framesDir string, text string, fg, bg sdl.Color, w, h int32) (*generatedArtPlayer, error) {
	p := &generatedArtPlayer{w: w, h: h, interval: 500 * time.Millisecond}

	if framesDir != "" {
		entries, err := os.ReadDir(framesDir)
		if err == nil {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				if !e.IsDir() && filepath.Ext(e.Name()) == ".png" {
					names = append(names, e.Name())
				}
			}
			sort.Strings(names)
			for _, name := range names {
				surface, err := img.Load(filepath.Join(framesDir, name))
				if err != nil {
					continue
				}
				tex, err := renderer.CreateTextureFromSurface(surface)
				surface.Free()
				if err != nil {
					continue
				}
				p.frames = append(p.frames, tex)
			}
		}
	}

	if len(p.frames) == 0 {
		if titleRenderer == nil {
			return nil, fmt.Errorf("generated art: no still frames in %q and no title renderer available", framesDir)
		}
		tex, tw, th, err := titleRenderer.RenderTitle(renderer, text, fg, bg)
		if err != nil {
			return nil, fmt.Errorf("generated art text frame: %w", err)
		}
		p.w, p.h = tw, th
		p.frames = []*sdl.Texture{tex}
	}

	p.lastTick = time.Now()
	return p, nil
}

func (p *generatedArtPlayer) Play() error { return nil }
func (p *generatedArtPlayer) Stop()       {}
func (p *generatedArtPlayer) Pause()      {}

func (p *generatedArtPlayer) Advance() error {
	if len(p.frames) <= 1 {
		return nil
	}
	if time.Since(p.lastTick) >= p.interval {
		p.frameIdx = (p.frameIdx + 1) % len(p.frames)
		p.lastTick = time.Now()
	}
	return nil
}

func (p *generatedArtPlayer) Texture() *sdl.Texture {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[p.frameIdx]
}

func (p *generatedArtPlayer) Size() (int32, int32) { return p.w, p.h }

func (p *generatedArtPlayer) Destroy() {
	for _, t := range p.frames {
		t.Destroy()
	}
	p.frames = nil
}

var _ videoplayer.Player = (*generatedArtPlayer)(nil)

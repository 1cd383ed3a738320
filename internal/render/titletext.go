//go:build !no_sdl_ttf
// +build !no_sdl_ttf

package render

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

// systemFontFallbacks is tried, in order, whenever the configured
// font_path is empty or fails to open.
var systemFontFallbacks = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/noto/NotoSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"C:/Windows/Fonts/arialbd.ttf",
}

// TitleRenderer synthesises title/metadata text textures via SDL_ttf.
type TitleRenderer struct {
	font     *ttf.Font
	fontPath string
	fontSize int
}

// NewTitleRenderer opens fontPath at fontSize, falling back to a system
// font search if fontPath is empty or fails to open.
func NewTitleRenderer(fontPath string, fontSize int) (*TitleRenderer, error) {
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("ttf init: %w", err)
	}
	if fontSize <= 0 {
		fontSize = 24
	}

	var font *ttf.Font
	var err error
	if fontPath != "" {
		font, err = ttf.OpenFont(fontPath, fontSize)
	}
	if font == nil {
		for _, path := range systemFontFallbacks {
			font, err = ttf.OpenFont(path, fontSize)
			if err == nil {
				fontPath = path
				break
			}
		}
	}
	if font == nil {
		ttf.Quit()
		return nil, fmt.Errorf("no usable font (configured %q, fallbacks exhausted): %w", fontPath, err)
	}

	return &TitleRenderer{font: font, fontPath: fontPath, fontSize: fontSize}, nil
}

// Reload swaps in a new font (used by the Font reload effect).
func (tr *TitleRenderer) Reload(fontPath string, fontSize int) error {
	next, err := NewTitleRenderer(fontPath, fontSize)
	if err != nil {
		return err
	}
	if tr.font != nil {
		tr.font.Close()
	}
	tr.font, tr.fontPath, tr.fontSize = next.font, next.fontPath, next.fontSize
	return nil
}

// RenderTitle draws text onto a fresh, uncached texture with the given
// foreground color over bgColor. The caller owns the returned texture and
// must destroy it when the active slot's title is replaced — title
// textures are never cache-resident (§4.3 step 4).
func (tr *TitleRenderer) RenderTitle(renderer *sdl.Renderer, text string, fg, bg sdl.Color) (*sdl.Texture, int32, int32, error) {
	surface, err := tr.font.RenderUTF8Shaded(text, fg, bg)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("render title text: %w", err)
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("title texture from surface: %w", err)
	}
	return texture, surface.W, surface.H, nil
}

// Close releases the font and the TTF subsystem.
func (tr *TitleRenderer) Close() {
	if tr.font != nil {
		tr.font.Close()
	}
	ttf.Quit()
}

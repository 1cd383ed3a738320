//go:build no_sdl_ttf
// +build no_sdl_ttf

package render

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// TitleRenderer stub for builds without SDL_ttf available (build with
// -tags no_sdl_ttf). NewTitleRenderer always returns an error in this
// build, and cmd/asapcabinetfe treats that error as fatal at startup.
type TitleRenderer struct{}

var errNoTTF = fmt.Errorf("SDL_ttf not available in this build (-tags no_sdl_ttf); install libsdl2-ttf-dev and rebuild without the tag")

// NewTitleRenderer always fails in a no_sdl_ttf build.
func NewTitleRenderer(fontPath string, fontSize int) (*TitleRenderer, error) {
	return nil, errNoTTF
}

// Reload always fails in a no_sdl_ttf build.
func (tr *TitleRenderer) Reload(fontPath string, fontSize int) error { return errNoTTF }

// RenderTitle always fails in a no_sdl_ttf build.
func (tr *TitleRenderer) RenderTitle(renderer *sdl.Renderer, text string, fg, bg sdl.Color) (*sdl.Texture, int32, int32, error) {
	return nil, 0, 0, errNoTTF
}

// Close is a no-op in a no_sdl_ttf build.
func (tr *TitleRenderer) Close() {}

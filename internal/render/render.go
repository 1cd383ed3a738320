// Package render implements C11: per-frame compositing of the active
// media for each window role, grounded on ui.go's render
// path (renderer.Copy into a destination rect, then Present) generalised
// from a single fixed-size emulator texture to four independently
// positioned, rotated role surfaces.
package render

import (
	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/config"
)

// RoleView is everything the compositor needs for one role's frame; the
// Asset Manager builds this from its ActiveSlot before calling Composite,
// keeping this package free of any dependency on internal/assets.
type RoleView struct {
	MediaTexture  *sdl.Texture // current video frame or static image; nil if none
	WheelTexture  *sdl.Texture // nil if not shown here
	TitleTexture  *sdl.Texture // nil if not shown here
	TitleW        int32
	TitleH        int32
}

// Composite draws one role's frame into renderer per §4.11:
//  1. media into media_rect with rotation
//  2. wheel into wheel_media rect (if configured for this role)
//  3. title background + texture (if configured for this role)
func Composite(renderer *sdl.Renderer, view RoleView, media config.RoleMedia, wheelRect *sdl.Rect, titleRect *sdl.Rect, fontBg config.Color) {
	if view.MediaTexture != nil {
		dst := &sdl.Rect{X: int32(media.X), Y: int32(media.Y), W: int32(media.Width), H: int32(media.Height)}
		renderer.CopyEx(view.MediaTexture, nil, dst, float64(media.Rotation), nil, sdl.FLIP_NONE)
	}

	if view.WheelTexture != nil && wheelRect != nil {
		renderer.Copy(view.WheelTexture, nil, wheelRect)
	}

	if view.TitleTexture != nil && titleRect != nil {
		bgRect := &sdl.Rect{
			X: titleRect.X - 5, Y: titleRect.Y - 5,
			W: titleRect.W + 10, H: titleRect.H + 10,
		}
		renderer.SetDrawColor(fontBg.R, fontBg.G, fontBg.B, fontBg.A)
		renderer.FillRect(bgRect)
		renderer.Copy(view.TitleTexture, nil, titleRect)
	}
}

// Present flips renderer's back buffer, the last step of §4.11's per-role loop.
func Present(renderer *sdl.Renderer) {
	renderer.Present()
}

// Clear fills renderer with black before compositing a new frame.
func Clear(renderer *sdl.Renderer) {
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.Clear()
}

package assets

import (
	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/texturecache"
	"asapcabinetfe/internal/videoplayer"
)

// ActiveSlot holds everything currently displayed for one role (§3).
// Texture/WheelTexture are borrows from the texture cache; TitleTexture
// is owned outright (title textures are never cache-resident); Video is
// moved out of the video cache while active.
type ActiveSlot struct {
	Texture      *texturecache.Ref
	WheelTexture *texturecache.Ref
	TitleTexture *sdl.Texture
	TitleW       int32
	TitleH       int32
	Video        videoplayer.Player

	CurrentImagePath string
	CurrentWheelPath string
	CurrentVideoPath string
	CurrentMediaW    int32
	CurrentMediaH    int32
}

// empty reports whether the slot carries no media at all.
func (s *ActiveSlot) empty() bool {
	return s.Texture == nil && s.WheelTexture == nil && s.TitleTexture == nil && s.Video == nil
}

// clearTitle destroys the owned title texture, if any.
func (s *ActiveSlot) clearTitle() {
	if s.TitleTexture != nil {
		s.TitleTexture.Destroy()
		s.TitleTexture = nil
		s.TitleW, s.TitleH = 0, 0
	}
}

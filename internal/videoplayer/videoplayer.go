// Package videoplayer defines the VideoPlayer capability set (§1: "we
// specify only the VideoPlayer capability set") and provides the
// concrete backends the config's video_backend setting selects between.
package videoplayer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Backend names a video_backend setting value.
type Backend string

const (
	BackendVLC        Backend = "vlc"
	BackendFFmpeg     Backend = "ffmpeg"
	BackendGStreamer  Backend = "gstreamer"
	BackendNoVideo    Backend = "novideo"
)

// Player is the capability every backend provides to the Asset Manager
// and Renderer. A Player owns GPU/driver state for exactly one
// (path, W, H) instance; it is never shared between window roles.
type Player interface {
	// Play starts or resumes playback. The ffmpeg backend loops the
	// file; the vlc and gstreamer backends play it through once.
	Play() error
	// Stop halts playback and releases the decode pipeline's live frame
	// source, but keeps the Player instance alive for reuse/caching.
	Stop()
	// Pause suspends playback without releasing resources.
	Pause()
	// Advance pumps one frame's worth of decode/present work. Must not
	// block — called once per render frame for the active slot (§4.11).
	Advance() error
	// Texture returns the current video frame as an SDL texture usable
	// by the renderer this frame, or nil if no frame is ready yet.
	Texture() *sdl.Texture
	// Size returns the player's configured output dimensions.
	Size() (w, h int32)
	// Destroy releases all backend resources. Only ever called from the
	// DiscardQueue drain (§4.2), never from an active slot or the cache.
	Destroy()
}

// Factory constructs a Player for path at (w, h) on renderer, using the
// backend it was built for.
type Factory interface {
	Backend() Backend
	NewPlayer(renderer *sdl.Renderer, path string, w, h int32) (Player, error)
}

// NewFactory resolves a video_backend setting to a concrete Factory.
func NewFactory(backend Backend) (Factory, error) {
	switch backend {
	case BackendVLC:
		return newVLCFactory(), nil
	case BackendFFmpeg:
		return newFFmpegFactory(), nil
	case BackendGStreamer:
		return newGStreamerFactory(), nil
	case BackendNoVideo, "":
		return newNoVideoFactory(), nil
	default:
		return nil, fmt.Errorf("unknown video backend %q", backend)
	}
}

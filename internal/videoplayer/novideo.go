package videoplayer

import "github.com/veandco/go-sdl2/sdl"

// noVideoFactory backs the "novideo" setting: NewPlayer always fails, so
// every role falls through to the image path, then generated art. Kept
// as a real Factory rather than special-cased in the Asset Manager;
// force_images_only is a separate check in the Asset Manager that skips
// the video step before any Factory is consulted.
type noVideoFactory struct{}

func newNoVideoFactory() Factory { return &noVideoFactory{} }

func (f *noVideoFactory) Backend() Backend { return BackendNoVideo }

func (f *noVideoFactory) NewPlayer(renderer *sdl.Renderer, path string, w, h int32) (Player, error) {
	return nil, errNoVideo
}

type noVideoError struct{}

func (noVideoError) Error() string { return "video backend disabled (novideo)" }

var errNoVideo = noVideoError{}

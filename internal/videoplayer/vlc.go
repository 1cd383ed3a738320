package videoplayer

import (
	"fmt"
	"sync"

	libvlc "github.com/adrg/libvlc-go/v3"
	"github.com/veandco/go-sdl2/sdl"
)

// vlcInitOnce guards libvlc.Init, which is process-global and must
// only run once regardless of how many per-role players get created.
var (
	vlcInitOnce sync.Once
	vlcInitErr  error
)

func ensureVLCInit() error {
	vlcInitOnce.Do(func() {
		vlcInitErr = libvlc.Init(
			"--intf=dummy",
			"--no-interact",
			"--no-video-title-show",
			"--no-osd",
			"--no-snapshot-preview",
			"--avcodec-hw=any",
			"--quiet",
		)
	})
	return vlcInitErr
}

type vlcFactory struct{}

func newVLCFactory() Factory { return &vlcFactory{} }

func (f *vlcFactory) Backend() Backend { return BackendVLC }

func (f *vlcFactory) NewPlayer(renderer *sdl.Renderer, path string, w, h int32) (Player, error) {
	if err := ensureVLCInit(); err != nil {
		return nil, fmt.Errorf("libvlc init: %w", err)
	}

	player, err := libvlc.NewPlayer()
	if err != nil {
		return nil, fmt.Errorf("libvlc new player: %w", err)
	}

	media, err := libvlc.NewMediaFromPath(path)
	if err != nil {
		player.Release()
		return nil, fmt.Errorf("libvlc media from path %s: %w", path, err)
	}

	if err := player.SetMedia(media); err != nil {
		media.Release()
		player.Release()
		return nil, fmt.Errorf("libvlc set media: %w", err)
	}

	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_IYUV), sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		media.Release()
		player.Release()
		return nil, fmt.Errorf("vlc frame texture: %w", err)
	}

	p := &vlcPlayer{
		player:  player,
		media:   media,
		texture: texture,
		w:       w,
		h:       h,
	}

	// SetVideoFormatCallback/SetVideoCallbacks bind libvlc's raw decode
	// output straight into p.frame, which Advance() blits into the
	// streaming texture. This keeps video compositing on the same SDL
	// renderer as images instead of an embedded libvlc window, so the
	// Renderer (C11) can apply media_rect/rotation uniformly.
	if err := player.SetVideoFormatCallback(p.formatCallback, int(w), int(h)); err != nil {
		texture.Destroy()
		media.Release()
		player.Release()
		return nil, fmt.Errorf("vlc video format callback: %w", err)
	}
	if err := player.SetVideoCallbacks(p.lock, p.unlock, p.display); err != nil {
		texture.Destroy()
		media.Release()
		player.Release()
		return nil, fmt.Errorf("vlc video callbacks: %w", err)
	}

	return p, nil
}

type vlcPlayer struct {
	mu      sync.Mutex
	player  *libvlc.Player
	media   *libvlc.Media
	texture *sdl.Texture
	w, h    int32

	frame      []byte
	frameReady bool
}

func (p *vlcPlayer) formatCallback(chroma string, width, height, pitches, lines uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame = make([]byte, int(p.w)*int(p.h)*3/2) // IYUV 4:2:0 plane size
}

func (p *vlcPlayer) lock() ([]byte, error) {
	p.mu.Lock()
	return p.frame, nil
}

func (p *vlcPlayer) unlock(buf []byte, pixels [][]byte) {
	p.mu.Unlock()
}

func (p *vlcPlayer) display(buf []byte) {
	p.mu.Lock()
	p.frameReady = true
	p.mu.Unlock()
}

func (p *vlcPlayer) Play() error {
	return p.player.Play()
}

func (p *vlcPlayer) Stop() {
	p.player.Stop()
}

func (p *vlcPlayer) Pause() {
	if playing, _ := p.player.IsPlaying(); playing {
		p.player.SetPause(true)
	}
}

func (p *vlcPlayer) Advance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.frameReady || p.frame == nil {
		return nil
	}
	pitch := int(p.w) // Y plane pitch for IYUV
	if err := p.texture.Update(nil, p.frame, pitch); err != nil {
		return fmt.Errorf("vlc texture update: %w", err)
	}
	return nil
}

func (p *vlcPlayer) Texture() *sdl.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.frameReady {
		return nil
	}
	return p.texture
}

func (p *vlcPlayer) Size() (int32, int32) { return p.w, p.h }

func (p *vlcPlayer) Destroy() {
	p.player.Stop()
	p.texture.Destroy()
	p.media.Release()
	p.player.Release()
}

package videoplayer

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

// gstreamerFactory shells out to gst-launch-1.0 with an appsink-to-stdout
// pipeline, the same "spawn a decoder binary and read its stdout" shape
// as the ffmpeg backend. The gstreamer debug level and hardware-decode
// vocabulary are grounded on other_examples/db6c4bfc_bnema-dumber config
// schema's MediaConfig (GStreamerDebugLevel, HardwareDecodingMode).
type gstreamerFactory struct{}

func newGStreamerFactory() Factory { return &gstreamerFactory{} }

func (f *gstreamerFactory) Backend() Backend { return BackendGStreamer }

func (f *gstreamerFactory) NewPlayer(renderer *sdl.Renderer, path string, w, h int32) (Player, error) {
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB24), sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		return nil, fmt.Errorf("gstreamer frame texture: %w", err)
	}
	return &gstreamerPlayer{
		path:    path,
		w:       w,
		h:       h,
		texture: texture,
		frame:   make([]byte, int(w)*int(h)*3),
	}, nil
}

type gstreamerPlayer struct {
	mu      sync.Mutex
	path    string
	w, h    int32
	texture *sdl.Texture

	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader

	frameReady bool
	frame      []byte
	paused     bool
}

func (p *gstreamerPlayer) pipeline() []string {
	return []string{
		"--quiet",
		fmt.Sprintf("filesrc location=%s", p.path),
		"! decodebin", "! videoconvert",
		fmt.Sprintf("! videoscale ! video/x-raw,format=RGB,width=%d,height=%d", p.w, p.h),
		"! queue", "! fdsink fd=1",
	}
}

func (p *gstreamerPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil {
		p.paused = false
		return nil
	}

	p.cmd = exec.Command("gst-launch-1.0", p.pipeline()...)
	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		p.cmd = nil
		return fmt.Errorf("gstreamer stdout pipe: %w", err)
	}
	if err := p.cmd.Start(); err != nil {
		p.cmd = nil
		return fmt.Errorf("gstreamer start: %w", err)
	}
	p.stdout = stdout
	p.reader = bufio.NewReaderSize(stdout, len(p.frame))
	return nil
}

func (p *gstreamerPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return
	}
	_ = p.stdout.Close()
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	p.cmd, p.stdout, p.reader = nil, nil, nil
	p.frameReady = false
}

func (p *gstreamerPlayer) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *gstreamerPlayer) Advance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.paused || p.reader == nil {
		return nil
	}
	if _, err := io.ReadFull(p.reader, p.frame); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		return fmt.Errorf("gstreamer frame read: %w", err)
	}
	p.frameReady = true
	return p.texture.Update(nil, p.frame, int(p.w)*3)
}

func (p *gstreamerPlayer) Texture() *sdl.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.frameReady {
		return nil
	}
	return p.texture
}

func (p *gstreamerPlayer) Size() (int32, int32) { return p.w, p.h }

func (p *gstreamerPlayer) Destroy() {
	p.Stop()
	p.texture.Destroy()
}

package videoplayer

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

// ffmpegFactory decodes via a spawned ffmpeg process piping raw rawvideo
// frames to stdout, in the same exec.Command-drives-a-decoder pattern the
// pack's ffmpeg-based renderers use (other_examples: vividhyeok-djbot
// backend/renderer.go, yourflock-roost compositor.go), generalised from a
// one-shot batch transcode into a continuously-read live frame source.
type ffmpegFactory struct{}

func newFFmpegFactory() Factory { return &ffmpegFactory{} }

func (f *ffmpegFactory) Backend() Backend { return BackendFFmpeg }

func (f *ffmpegFactory) NewPlayer(renderer *sdl.Renderer, path string, w, h int32) (Player, error) {
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB24), sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame texture: %w", err)
	}

	p := &ffmpegPlayer{
		path:    path,
		w:       w,
		h:       h,
		texture: texture,
		frame:   make([]byte, int(w)*int(h)*3),
	}
	return p, nil
}

type ffmpegPlayer struct {
	mu      sync.Mutex
	path    string
	w, h    int32
	texture *sdl.Texture

	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader

	frame      []byte
	frameReady bool
	paused     bool
}

func (p *ffmpegPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		p.paused = false
		return nil
	}

	p.cmd = exec.Command("ffmpeg",
		"-loglevel", "error",
		"-stream_loop", "-1",
		"-i", p.path,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", p.w, p.h),
		"-an",
		"pipe:1",
	)
	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		p.cmd = nil
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := p.cmd.Start(); err != nil {
		p.cmd = nil
		return fmt.Errorf("ffmpeg start: %w", err)
	}
	p.stdout = stdout
	p.reader = bufio.NewReaderSize(stdout, len(p.frame))
	return nil
}

func (p *ffmpegPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return
	}
	_ = p.stdout.Close()
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	p.cmd = nil
	p.stdout = nil
	p.reader = nil
	p.frameReady = false
}

func (p *ffmpegPlayer) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *ffmpegPlayer) Advance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.paused || p.reader == nil {
		return nil
	}
	if _, err := io.ReadFull(p.reader, p.frame); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// stream_loop -1 should prevent this, but a corrupt/short file
			// can still end the pipe early; surface nothing rather than error.
			return nil
		}
		return fmt.Errorf("ffmpeg frame read: %w", err)
	}
	p.frameReady = true
	if err := p.texture.Update(nil, p.frame, int(p.w)*3); err != nil {
		return fmt.Errorf("ffmpeg texture update: %w", err)
	}
	return nil
}

func (p *ffmpegPlayer) Texture() *sdl.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.frameReady {
		return nil
	}
	return p.texture
}

func (p *ffmpegPlayer) Size() (int32, int32) { return p.w, p.h }

func (p *ffmpegPlayer) Destroy() {
	p.Stop()
	p.texture.Destroy()
}

// Package sound implements C5: ambience/table/launch music plus UI
// effect chunks over SDL2_mixer, generalised from ui.go's raw
// sdl.OpenAudioDevice + sdl.QueueAudio pattern (there the
// emulator pushed raw float32 samples; here SDL2_mixer owns mixing,
// looping, and per-channel volume instead of a hand-rolled queue).
package sound

import (
	"math/rand"

	"github.com/veandco/go-sdl2/mix"

	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/diag"
)

// MusicType is which of the three music slots is currently audible.
type MusicType int

const (
	MusicNone MusicType = iota
	MusicAmbience
	MusicTable
	MusicLaunch
)

// maxAmbienceSeekSeconds bounds the random start offset used by
// PlayAmbience. SDL_mixer does not expose a portable cross-codec
// "total duration" query through go-sdl2/mix, so rather than guess
// wrong we seed uniformly within a generous fixed window instead of
// the track's true length.
const maxAmbienceSeekSeconds = 180.0

const uiChannel = 0

// Manager is the sound subsystem. All methods are main-thread only,
// matching §5's single-threaded cache/resource model.
type Manager struct {
	log *diag.Logger

	musicType MusicType
	music     *mix.Music
	musicPath string

	uiChunks map[string]*mix.Chunk

	settings *config.Settings
}

// New opens the mixer device. AudioDeviceUnavailable is fatal at
// startup per §7; callers should treat a non-nil error that way.
func New(logger *diag.Logger) (*Manager, error) {
	if err := mix.OpenAudio(44100, mix.DEFAULT_FORMAT, 2, 2048); err != nil {
		return nil, err
	}
	mix.AllocateChannels(16)
	return &Manager{log: logger, uiChunks: make(map[string]*mix.Chunk)}, nil
}

// Close releases the mixer device and all loaded audio.
func (m *Manager) Close() {
	m.stopMusicFile()
	for _, c := range m.uiChunks {
		c.Free()
	}
	m.uiChunks = nil
	mix.CloseAudio()
}

// PlayUI plays a short effect chunk on a free channel (§4.5 play_ui).
func (m *Manager) PlayUI(path string) {
	if path == "" {
		return
	}
	chunk, err := m.loadChunk(path)
	if err != nil {
		m.logf(diag.LevelWarning, "ui sound %q: %v", path, err)
		return
	}
	if _, err := chunk.Play(-1, 0); err != nil {
		m.logf(diag.LevelWarning, "ui sound %q play failed: %v", path, err)
	}
}

func (m *Manager) loadChunk(path string) (*mix.Chunk, error) {
	if c, ok := m.uiChunks[path]; ok {
		return c, nil
	}
	c, err := mix.LoadWAV(path)
	if err != nil {
		return nil, err
	}
	m.uiChunks[path] = c
	return c, nil
}

// PlayAmbience stops any current music and loops path, starting at a
// uniformly random position so every session doesn't open on the same
// intro (§4.5 play_ambience).
func (m *Manager) PlayAmbience(path string) {
	m.stopMusicFile()
	if path == "" {
		return
	}
	mus, err := mix.LoadMUS(path)
	if err != nil {
		m.logf(diag.LevelWarning, "ambience %q: %v", path, err)
		return
	}
	m.music = mus
	m.musicPath = path
	m.musicType = MusicAmbience

	if err := mus.Play(-1); err != nil {
		m.logf(diag.LevelWarning, "ambience %q play failed: %v", path, err)
		return
	}
	seekSeconds := rand.Float64() * maxAmbienceSeekSeconds
	if err := mus.SetPosition(seekSeconds); err != nil {
		m.logf(diag.LevelDebug, "ambience %q: position seek unsupported: %v", path, err)
	}
}

// PlayTableMusic stops any current music and loops path from the start;
// falls back to ambience if path is empty (§4.5 play_table_music).
func (m *Manager) PlayTableMusic(path, fallbackAmbience string) {
	if path == "" {
		m.PlayAmbience(fallbackAmbience)
		return
	}
	m.stopMusicFile()
	mus, err := mix.LoadMUS(path)
	if err != nil {
		m.logf(diag.LevelWarning, "table music %q: %v", path, err)
		m.PlayAmbience(fallbackAmbience)
		return
	}
	m.music = mus
	m.musicPath = path
	m.musicType = MusicTable
	if err := mus.Play(-1); err != nil {
		m.logf(diag.LevelWarning, "table music %q play failed: %v", path, err)
	}
}

// PlayCustomLaunch stops any current music and plays path once (§4.5 play_custom_launch).
func (m *Manager) PlayCustomLaunch(path string) {
	m.stopMusicFile()
	if path == "" {
		return
	}
	mus, err := mix.LoadMUS(path)
	if err != nil {
		m.logf(diag.LevelWarning, "launch music %q: %v", path, err)
		return
	}
	m.music = mus
	m.musicPath = path
	m.musicType = MusicLaunch
	if err := mus.Play(1); err != nil {
		m.logf(diag.LevelWarning, "launch music %q play failed: %v", path, err)
	}
}

// StopMusic halts playback and resets the current music type (§4.5 stop_music).
func (m *Manager) StopMusic() {
	m.stopMusicFile()
	m.musicType = MusicNone
}

func (m *Manager) stopMusicFile() {
	if mix.PlayingMusic() {
		mix.HaltMusic()
	}
	if m.music != nil {
		m.music.Free()
		m.music = nil
	}
	m.musicPath = ""
}

// CurrentMusicType reports which slot is audible.
func (m *Manager) CurrentMusicType() MusicType { return m.musicType }

// ApplyAudioSettings sets the mixer's UI and music channel volumes per
// the effective-volume formula in §4.5: master × per-channel, with
// master_mute or the channel's own mute forcing silence.
func (m *Manager) ApplyAudioSettings(settings *config.Settings) {
	m.settings = settings

	uiVol := effectiveVolume(settings, settings.InterfaceAudioVol, settings.InterfaceAudioMute)
	mix.Volume(uiChannel, mixVolume(uiVol))
	mix.Volume(-1, mixVolume(uiVol)) // all non-music channels share the UI/effects budget

	var musicVol float64
	switch m.musicType {
	case MusicAmbience:
		musicVol = effectiveVolume(settings, settings.InterfaceAmbienceVol, settings.InterfaceAmbienceMute)
	case MusicTable:
		musicVol = effectiveVolume(settings, settings.TableMusicVol, settings.TableMusicMute)
	case MusicLaunch:
		musicVol = effectiveVolume(settings, settings.InterfaceAudioVol, settings.InterfaceAudioMute)
	default:
		musicVol = 0
	}
	mix.VolumeMusic(mixVolume(musicVol))
}

func effectiveVolume(settings *config.Settings, channelVol float64, channelMute bool) float64 {
	if settings.MasterMute || channelMute {
		return 0
	}
	return (settings.MasterVol / 100.0) * (channelVol / 100.0) * 100.0
}

// mixVolume converts a 0-100 effective volume into SDL_mixer's 0-128 scale.
func mixVolume(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 100 {
		return mix.MAX_VOLUME
	}
	return int(v / 100.0 * float64(mix.MAX_VOLUME))
}

// UpdateSettings frees every cached UI chunk (PlayUI reloads each one
// from its current path on next use), restarts ambience if its path
// changed while active, and always re-applies volumes (§4.5
// update_settings).
func (m *Manager) UpdateSettings(next *config.Settings) {
	prevAmbience := ""
	if m.settings != nil {
		prevAmbience = m.settings.AmbienceSound
	}

	for _, c := range m.uiChunks {
		c.Free()
	}
	m.uiChunks = make(map[string]*mix.Chunk)

	if m.musicType == MusicAmbience && next.AmbienceSound != prevAmbience {
		m.PlayAmbience(next.AmbienceSound)
	}

	m.ApplyAudioSettings(next)
}

func (m *Manager) logf(level diag.Level, format string, args ...interface{}) {
	if m.log != nil {
		m.log.Logf(diag.ComponentSound, level, format, args...)
	}
}

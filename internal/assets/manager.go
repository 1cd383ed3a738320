// Package assets implements C3: the central load_table state machine
// (§4.3), wiring the texture cache, video cache, title renderer, and
// sound manager around one ActiveSlot per role.
package assets

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/diag"
	"asapcabinetfe/internal/render"
	"asapcabinetfe/internal/role"
	"asapcabinetfe/internal/sound"
	"asapcabinetfe/internal/table"
	"asapcabinetfe/internal/texturecache"
	"asapcabinetfe/internal/videocache"
	"asapcabinetfe/internal/videoplayer"
	"asapcabinetfe/internal/windowset"
)

// fastPathKey is the subset of settings whose equality lets load_table
// skip straight to resuming playback instead of rebuilding every slot
// (§4.3 "fast path").
type fastPathKey struct {
	forceImagesOnly bool
	useGeneratedArt bool
	videoBackend    string
	showBackglass   bool
	showDMD         bool
	showTopper      bool
	showTitle       bool
	showWheel       bool
	titleWindow     role.Role
	wheelWindow     role.Role
}

func snapshotFastPath(s *config.Settings) fastPathKey {
	return fastPathKey{
		forceImagesOnly: s.ForceImagesOnly,
		useGeneratedArt: s.UseGeneratedArt,
		videoBackend:    s.VideoBackend,
		showBackglass:   s.Windows[role.Backglass].Show,
		showDMD:         s.Windows[role.DMD].Show,
		showTopper:      s.Windows[role.Topper].Show,
		showTitle:       s.ShowTitle,
		showWheel:       s.ShowWheel,
		titleWindow:     s.TitleWindow,
		wheelWindow:     s.WheelWindow,
	}
}

// Manager is the central state machine described by §4.3: "the central
// operation: load_table(index, tables)".
type Manager struct {
	slots map[role.Role]*ActiveSlot

	texCache      *texturecache.Cache
	vidCache      *videocache.Cache
	titleRenderer *render.TitleRenderer
	log           *diag.Logger

	backend videoplayer.Backend
	factory videoplayer.Factory

	lastIndex int
	lastKey   fastPathKey
	hasLast   bool
}

// NewManager wires the Asset Manager around its collaborators. All are
// main-thread-only, per §5.
func NewManager(texCache *texturecache.Cache, vidCache *videocache.Cache, titleRenderer *render.TitleRenderer, logger *diag.Logger) *Manager {
	slots := make(map[role.Role]*ActiveSlot, len(role.All))
	for _, r := range role.All {
		slots[r] = &ActiveSlot{}
	}
	return &Manager{slots: slots, texCache: texCache, vidCache: vidCache, titleRenderer: titleRenderer, log: logger, lastIndex: -1}
}

// Slot returns the live slot for a role, for the Renderer to read.
func (m *Manager) Slot(r role.Role) *ActiveSlot { return m.slots[r] }

// RoleView builds the renderer's decoupled view of a role's current
// media, bridging ActiveSlot to render.RoleView without that package
// depending on this one.
func (m *Manager) RoleView(r role.Role) render.RoleView {
	slot := m.slots[r]
	v := render.RoleView{}
	switch {
	case slot.Video != nil:
		v.MediaTexture = slot.Video.Texture()
	case slot.Texture != nil:
		v.MediaTexture = slot.Texture.Texture
	}
	if slot.WheelTexture != nil {
		v.WheelTexture = slot.WheelTexture.Texture
	}
	if slot.TitleTexture != nil {
		v.TitleTexture = slot.TitleTexture
		v.TitleW, v.TitleH = slot.TitleW, slot.TitleH
	}
	return v
}

// StopAll pauses every active player without releasing it, for the
// Input Dispatcher's pre-launch media quiescence (§4.7 "stop all four
// players and music").
func (m *Manager) StopAll() {
	for _, r := range role.All {
		if slot := m.slots[r]; slot.Video != nil {
			slot.Video.Stop()
		}
	}
}

// AdvanceVideos pumps one frame of decode work for every active player
// (§4.11's per-frame Advance call).
func (m *Manager) AdvanceVideos() {
	for _, r := range role.All {
		if slot := m.slots[r]; slot.Video != nil {
			slot.Video.Advance()
		}
	}
}

func resolveBackend(name string) videoplayer.Backend {
	switch videoplayer.Backend(name) {
	case videoplayer.BackendVLC, videoplayer.BackendFFmpeg, videoplayer.BackendGStreamer:
		return videoplayer.Backend(name)
	default:
		return videoplayer.BackendNoVideo
	}
}

func (m *Manager) ensureFactory(backend videoplayer.Backend) error {
	if m.factory != nil && m.backend == backend {
		return nil
	}
	f, err := videoplayer.NewFactory(backend)
	if err != nil {
		return err
	}
	m.factory = f
	m.backend = backend
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func toSDLColor(c config.Color) sdl.Color {
	return sdl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// LoadTable is the central operation (§4.3). On the fast path (same
// index, no fast-path setting changed) it only resumes paused players;
// otherwise it runs the full five-step rebuild.
func (m *Manager) LoadTable(index int, tables []*table.Record, settings *config.Settings, windows *windowset.Set, soundMgr *sound.Manager) error {
	key := snapshotFastPath(settings)
	if m.hasLast && index == m.lastIndex && key == m.lastKey {
		for _, r := range role.All {
			if slot := m.slots[r]; slot.Video != nil {
				slot.Video.Play()
			}
		}
		return nil
	}

	if index < 0 || index >= len(tables) {
		return fmt.Errorf("assets: load_table index %d out of range [0,%d)", index, len(tables))
	}
	t := tables[index]
	backend := resolveBackend(settings.VideoBackend)

	// Step 1: stop every active player.
	for _, r := range role.All {
		if slot := m.slots[r]; slot.Video != nil {
			slot.Video.Stop()
		}
	}

	// Step 2: cache or retire the previous players, then drain whatever
	// the eviction/retire calls queued (§4.2: drain_discard runs at the
	// top of load_table, after stop, before anything new is created).
	for _, r := range role.All {
		slot := m.slots[r]
		if slot.Video == nil {
			continue
		}
		if slot.CurrentVideoPath != "" && slot.CurrentMediaW > 0 && slot.CurrentMediaH > 0 {
			m.vidCache.Put(videocache.Key(m.backend, r, slot.CurrentVideoPath, slot.CurrentMediaW, slot.CurrentMediaH), slot.Video)
		} else {
			m.vidCache.Retire(slot.Video)
		}
	}
	m.vidCache.DrainDiscard()

	// Step 3: clear every active slot's fields, releasing texture borrows.
	for _, r := range role.All {
		slot := m.slots[r]
		if slot.Texture != nil {
			m.texCache.Release(slot.CurrentImagePath)
		}
		if slot.WheelTexture != nil {
			m.texCache.Release(slot.CurrentWheelPath)
		}
		slot.clearTitle()
		*slot = ActiveSlot{}
	}

	if err := m.ensureFactory(backend); err != nil {
		m.logf(diag.LevelError, "video factory for backend %q: %v", backend, err)
	}

	// Step 4: per-role loader, in the fixed playfield/backglass/dmd/topper order.
	for _, r := range role.All {
		m.loadRole(r, t, settings, windows)
	}

	// Step 5: audio.
	m.applyAudio(t, settings, soundMgr)

	m.lastIndex = index
	m.lastKey = key
	m.hasLast = true
	return nil
}

// loadRole binds one role's texture/video/wheel/title, skipping
// entirely if the role's window isn't shown or has no live renderer.
func (m *Manager) loadRole(r role.Role, t *table.Record, settings *config.Settings, windows *windowset.Set) {
	w := settings.Windows[r]
	if !w.Show {
		return
	}
	renderer := windows.Renderer(r)
	if renderer == nil {
		return
	}

	slot := m.slots[r]
	media := settings.Media[r]
	mediaW, mediaH := int32(media.Width), int32(media.Height)

	if settings.ShowTitle && settings.TitleWindow == r {
		text := roleText(r, t)
		tex, tw, th, err := m.titleRenderer.RenderTitle(renderer, text, toSDLColor(settings.FontColor), toSDLColor(settings.FontBgColor))
		if err != nil {
			m.logf(diag.LevelWarning, "title render for %q failed: %v", text, err)
		} else {
			slot.TitleTexture = tex
			slot.TitleW, slot.TitleH = tw, th
		}
	}

	if settings.ShowWheel && settings.WheelWindow == r && t.WheelImage != "" && fileExists(t.WheelImage) {
		if ref, ok := m.texCache.Get(renderer, t.WheelImage); ok {
			slot.WheelTexture = &ref
			slot.CurrentWheelPath = t.WheelImage
		}
	}

	videoPath, imagePath := t.MediaPaths(r)
	bound := false

	if !settings.ForceImagesOnly && !settings.UseGeneratedArt && videoPath != "" && fileExists(videoPath) {
		bound = m.bindVideo(slot, r, videoPath, renderer, mediaW, mediaH)
	}

	if !bound && imagePath != "" && fileExists(imagePath) {
		if ref, ok := m.texCache.Get(renderer, imagePath); ok {
			slot.Texture = &ref
			slot.CurrentImagePath = imagePath
			slot.CurrentMediaW, slot.CurrentMediaH = mediaW, mediaH
			bound = true
		}
	}

	if !bound {
		m.bindGeneratedArt(slot, r, t, renderer, settings, mediaW, mediaH)
	}
}

func (m *Manager) bindVideo(slot *ActiveSlot, r role.Role, path string, renderer *sdl.Renderer, w, h int32) bool {
	key := videocache.Key(m.backend, r, path, w, h)
	if player, ok := m.vidCache.Get(key); ok {
		slot.Video = player
		player.Play()
		slot.CurrentVideoPath = path
		slot.CurrentMediaW, slot.CurrentMediaH = w, h
		return true
	}
	if m.factory == nil {
		return false
	}
	player, err := m.factory.NewPlayer(renderer, path, w, h)
	if err != nil {
		m.logf(diag.LevelWarning, "video player for %q failed: %v", path, err)
		return false
	}
	player.Play()
	slot.Video = player
	slot.CurrentVideoPath = path
	slot.CurrentMediaW, slot.CurrentMediaH = w, h
	return true
}

// bindGeneratedArt implements §4.3's alternative-media fallback: cycle
// dmd_still_images if configured, else a single synthesized text frame
// (§9 DMD_still_images open question, resolved by SPEC_FULL §C.4).
func (m *Manager) bindGeneratedArt(slot *ActiveSlot, r role.Role, t *table.Record, renderer *sdl.Renderer, settings *config.Settings, w, h int32) {
	key := GeneratedArtKey(r, w, h)
	if player, ok := m.vidCache.Get(key); ok {
		slot.Video = player
		player.Play()
		slot.CurrentVideoPath = key
		slot.CurrentMediaW, slot.CurrentMediaH = w, h
		return
	}

	text := roleText(r, t)
	player, err := newGeneratedArtPlayer(renderer, m.titleRenderer, settings.GeneratedArtFramesDir, text, toSDLColor(settings.FontColor), toSDLColor(settings.FontBgColor), w, h)
	if err != nil {
		m.logf(diag.LevelWarning, "generated art fallback for %s failed: %v", r, err)
		return
	}
	slot.Video = player
	slot.CurrentVideoPath = key
	slot.CurrentMediaW, slot.CurrentMediaH = w, h
}

func (m *Manager) applyAudio(t *table.Record, settings *config.Settings, soundMgr *sound.Manager) {
	if soundMgr == nil {
		return
	}
	if t.Music != "" {
		soundMgr.PlayTableMusic(t.Music, settings.AmbienceSound)
	} else {
		soundMgr.PlayAmbience(settings.AmbienceSound)
	}
	soundMgr.ApplyAudioSettings(settings)
}

// ReloadFont swaps in a new title font in place and invalidates any
// title/generated-art textures rendered with the previous one (§4.8
// ReloadFont/ReloadTitle).
func (m *Manager) ReloadFont(fontPath string, fontSize int) error {
	if err := m.titleRenderer.Reload(fontPath, fontSize); err != nil {
		return err
	}
	for _, r := range role.All {
		m.slots[r].clearTitle()
	}
	m.hasLast = false
	return nil
}

// HandleWindowsReload drops every texture after a Windows reload
// destroys and recreates renderers (§4.8 ReloadWindows): the cache's
// existing GPU resources belong to renderers that no longer exist.
func (m *Manager) HandleWindowsReload() {
	m.texCache.Clear()
	for _, r := range role.All {
		slot := m.slots[r]
		slot.Texture = nil
		slot.WheelTexture = nil
		slot.clearTitle()
	}
	m.hasLast = false
}

// Cleanup stops and retires every active player and drains the caches,
// for shutdown (§4.3 cleanup_video_players).
func (m *Manager) Cleanup() {
	for _, r := range role.All {
		slot := m.slots[r]
		if slot.Video != nil {
			slot.Video.Stop()
			m.vidCache.Retire(slot.Video)
			slot.Video = nil
		}
		slot.clearTitle()
	}
	m.vidCache.ClearAll()
	m.texCache.Clear()
}

func (m *Manager) logf(level diag.Level, format string, args ...interface{}) {
	if m.log != nil {
		m.log.Logf(diag.ComponentAssetManager, level, format, args...)
	}
}

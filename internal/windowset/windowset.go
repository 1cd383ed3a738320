// Package windowset implements C4: lifecycle of up to four
// (window, renderer) pairs, one per physical role, grounded on
// ui.go's sdl.CreateWindow/sdl.CreateRenderer sequence (accelerated+vsync
// renderer, software fallback on failure).
package windowset

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/diag"
	"asapcabinetfe/internal/role"
)

// RendererLostError is returned when both accelerated and software
// renderer creation fail for a role; per §7 this is fatal at startup.
type RendererLostError struct {
	Role role.Role
	Err  error
}

func (e *RendererLostError) Error() string {
	return fmt.Sprintf("windowset: renderer lost for role %s: %v", e.Role, e.Err)
}
func (e *RendererLostError) Unwrap() error { return e.Err }

type pair struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	geom     config.RoleWindow
}

// Set owns the live windows/renderers for every visible role.
type Set struct {
	pairs map[role.Role]*pair
	log   *diag.Logger
}

// New creates an empty Set. Call Update with the initial settings to
// actually create windows.
func New(logger *diag.Logger) *Set {
	return &Set{pairs: make(map[role.Role]*pair), log: logger}
}

// Renderer returns the live renderer for role r, or nil if the role's
// window is not currently shown.
func (s *Set) Renderer(r role.Role) *sdl.Renderer {
	if p := s.pairs[r]; p != nil {
		return p.renderer
	}
	return nil
}

// Window returns the live window for role r, or nil.
func (s *Set) Window(r role.Role) *sdl.Window {
	if p := s.pairs[r]; p != nil {
		return p.window
	}
	return nil
}

// Geometry returns the role's last-known committed geometry and whether
// a window currently exists for it.
func (s *Set) Geometry(r role.Role) (config.RoleWindow, bool) {
	p, ok := s.pairs[r]
	if !ok {
		return config.RoleWindow{}, false
	}
	return p.geom, true
}

// RoleForWindow finds which role owns windowID, used by the Input
// Dispatcher to attribute a double-click to a physical window.
func (s *Set) RoleForWindow(windowID uint32) (role.Role, bool) {
	for r, p := range s.pairs {
		if p.window != nil {
			if id, err := p.window.GetID(); err == nil && id == windowID {
				return r, true
			}
		}
	}
	return "", false
}

// Update reconciles the live window set against settings (§4.4): it
// creates/destroys/resizes windows to match show_* and geometry, with
// DPI-scaled geometry recompute per SPEC_FULL §C.5.
func (s *Set) Update(settings *config.Settings) error {
	for _, r := range role.All {
		wanted := settings.Windows[r]
		scaled := scaleGeometry(wanted, settings)

		existing, has := s.pairs[r]

		if !scaled.Show {
			if has {
				s.destroy(r)
			}
			continue
		}

		if !has {
			if err := s.create(r, scaled); err != nil {
				return err
			}
			continue
		}

		if existing.geom.Width != scaled.Width || existing.geom.Height != scaled.Height ||
			existing.geom.X != scaled.X || existing.geom.Y != scaled.Y {
			existing.window.SetSize(int32(scaled.Width), int32(scaled.Height))
			existing.window.SetPosition(int32(scaled.X), int32(scaled.Y))

			gotW, gotH := existing.window.GetSize()
			gotX, gotY := existing.window.GetPosition()
			if int(gotW) != scaled.Width || int(gotH) != scaled.Height || int(gotX) != scaled.X || int(gotY) != scaled.Y {
				// Tiling WM refused the resize/move outright; recreate.
				s.destroy(r)
				if err := s.create(r, scaled); err != nil {
					return err
				}
				continue
			}
			existing.geom = scaled
		}
	}
	return nil
}

// scaleGeometry applies dpi_scale to a role's persisted geometry so
// toggling enable_dpi_scaling takes effect without a restart (SPEC_FULL §C.5).
func scaleGeometry(g config.RoleWindow, settings *config.Settings) config.RoleWindow {
	if !settings.EnableDPIScaling {
		return g
	}
	scale := settings.DPIScale
	return config.RoleWindow{
		Show:   g.Show,
		Width:  int(float64(g.Width) * scale),
		Height: int(float64(g.Height) * scale),
		X:      int(float64(g.X) * scale),
		Y:      int(float64(g.Y) * scale),
	}
}

// unscaleGeometry is scaleGeometry's inverse, used by CommitGeometry to
// turn a live (already-scaled) window geometry back into the logical
// geometry settings.Windows stores, so the next Update's scaleGeometry
// does not compound the factor a second time.
func unscaleGeometry(g config.RoleWindow, settings *config.Settings) config.RoleWindow {
	if !settings.EnableDPIScaling || settings.DPIScale == 0 {
		return g
	}
	scale := settings.DPIScale
	return config.RoleWindow{
		Show:   g.Show,
		Width:  int(float64(g.Width) / scale),
		Height: int(float64(g.Height) / scale),
		X:      int(float64(g.X) / scale),
		Y:      int(float64(g.Y) / scale),
	}
}

func (s *Set) create(r role.Role, geom config.RoleWindow) error {
	window, err := sdl.CreateWindow(
		string(r),
		int32(geom.X), int32(geom.Y),
		int32(geom.Width), int32(geom.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_BORDERLESS,
	)
	if err != nil {
		return fmt.Errorf("windowset: create window %s: %w", r, err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		s.logf(diag.LevelWarning, "accelerated renderer failed for %s (%v), retrying software", r, err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE|sdl.RENDERER_PRESENTVSYNC)
		if err != nil {
			window.Destroy()
			return &RendererLostError{Role: r, Err: err}
		}
	}

	s.pairs[r] = &pair{window: window, renderer: renderer, geom: geom}
	s.logf(diag.LevelInfo, "created window+renderer for %s at %dx%d+%d+%d", r, geom.Width, geom.Height, geom.X, geom.Y)
	return nil
}

func (s *Set) destroy(r role.Role) {
	p, ok := s.pairs[r]
	if !ok {
		return
	}
	if p.renderer != nil {
		p.renderer.Destroy()
	}
	if p.window != nil {
		p.window.Destroy()
	}
	delete(s.pairs, r)
	s.logf(diag.LevelInfo, "destroyed window+renderer for %s", r)
}

// CommitGeometry records a user-dragged window's new position/size into
// settings, for the double-click handler in C7 (§4.7). The live geometry
// is DPI-scaled when enable_dpi_scaling is on, so it is unscaled back to
// the logical geometry settings.Windows stores before being written —
// otherwise the next Update would scale it up a second time.
func (s *Set) CommitGeometry(r role.Role, settings *config.Settings) {
	p, ok := s.pairs[r]
	if !ok {
		return
	}
	w, h := p.window.GetSize()
	x, y := p.window.GetPosition()
	live := settings.Windows[r]
	live.Width, live.Height, live.X, live.Y = int(w), int(h), int(x), int(y)
	geom := unscaleGeometry(live, settings)
	settings.Windows[r] = geom
	p.geom = live
}

// DestroyAll tears down every live window/renderer, for shutdown.
func (s *Set) DestroyAll() {
	for r := range s.pairs {
		s.destroy(r)
	}
}

func (s *Set) logf(level diag.Level, format string, args ...interface{}) {
	if s.log != nil {
		s.log.Logf(diag.ComponentWindowSet, level, format, args...)
	}
}

// Package input implements C7: per-frame event pump, modal gating, and
// action dispatch, built directly against go-sdl2/sdl's event queue
// (ui.go's Run loop polls the same way for its single
// keyboard/quit handler; this generalises that to a rebindable action
// table and six modal states) per §4.7.
package input

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/assets"
	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/diag"
	"asapcabinetfe/internal/keybind"
	"asapcabinetfe/internal/launcher"
	"asapcabinetfe/internal/sound"
	"asapcabinetfe/internal/table"
	"asapcabinetfe/internal/windowset"
)

// debounceWindow is the post-launch input-ignore period from §5/§4.7.
const debounceWindow = 500 * time.Millisecond

// doubleClickWindow is the window-chrome double-click threshold from §4.7/§8.
const doubleClickWindow = 300 * time.Millisecond

// State is one of the mutually-exclusive modal states from §4.7,
// replacing the scattered show_config/show_editor/... booleans (§9).
type State int

const (
	StateNormal State = iota
	StateConfigOpen
	StateEditorOpen
	StateCatalogOpen
	StateExternalAppActive
	StateLoadingTables
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "Normal"
	case StateConfigOpen:
		return "ConfigOpen"
	case StateEditorOpen:
		return "EditorOpen"
	case StateCatalogOpen:
		return "CatalogOpen"
	case StateExternalAppActive:
		return "ExternalAppActive"
	case StateLoadingTables:
		return "LoadingTables"
	default:
		return "Unknown"
	}
}

// Dispatcher is C7. It owns no table/settings state of its own beyond
// the modal state machine; the caller passes the live tables/settings
// in each frame (§5: tables is the only cross-thread-guarded value).
type Dispatcher struct {
	log       *diag.Logger
	keys      *keybind.Store
	windows   *windowset.Set
	assetsMgr *assets.Manager
	launch    *launcher.Launcher
	soundMgr  *sound.Manager
	stats     table.StatsSink
	cfgSvc    *config.Service

	state    State
	openedBy keybind.Action

	lastExternalReturn time.Time
	lastClick          map[uint32]time.Time

	// pending holds launch-completion work posted from the launcher's
	// supervisor goroutine (§5); drained at the top of each Update so
	// stats/media resumption complete before the next action dispatches.
	pending chan func()

	shouldQuit bool
}

// New wires the Input Dispatcher around its collaborators. It starts in
// LoadingTables, per §4.7's gating rule for the out-of-scope scanner phase.
func New(logger *diag.Logger, keys *keybind.Store, windows *windowset.Set, assetsMgr *assets.Manager, l *launcher.Launcher, soundMgr *sound.Manager, stats table.StatsSink, cfgSvc *config.Service) *Dispatcher {
	return &Dispatcher{
		log: logger, keys: keys, windows: windows, assetsMgr: assetsMgr, launch: l, soundMgr: soundMgr, stats: stats, cfgSvc: cfgSvc,
		state:     StateLoadingTables,
		lastClick: make(map[uint32]time.Time),
		pending:   make(chan func(), 4),
	}
}

// FinishLoading transitions out of LoadingTables once the (out-of-scope)
// table scanner signals completion.
func (d *Dispatcher) FinishLoading() {
	if d.state == StateLoadingTables {
		d.state = StateNormal
	}
}

// State reports the current modal state, for the view layer to decide
// which (out-of-scope) panel to draw.
func (d *Dispatcher) State() State { return d.state }

// ShouldQuit reports whether the application should exit.
func (d *Dispatcher) ShouldQuit() bool { return d.shouldQuit }

// Update pumps the SDL event queue for one frame and returns the
// possibly-changed catalog index (§4.7).
func (d *Dispatcher) Update(tables []*table.Record, index int, settings *config.Settings) int {
	d.drainPending()

	for {
		event := sdl.PollEvent()
		if event == nil {
			break
		}
		switch e := event.(type) {
		case *sdl.QuitEvent:
			d.shouldQuit = true
		case *sdl.MouseButtonEvent:
			d.handleMouseButton(e, tables, index, settings)
		default:
			index = d.handleAction(event, tables, index, settings)
		}
	}
	return index
}

func (d *Dispatcher) drainPending() {
	for {
		select {
		case fn := <-d.pending:
			fn()
		default:
			return
		}
	}
}

// handleMouseButton implements the double-click window-chrome commit
// (§4.7, §8): a left-button double-click within doubleClickWindow
// commits the clicked window's live geometry into settings. Deleting
// the stored click on a successful pair (rather than sliding it
// forward) is what keeps a third click within 300 ms of the first from
// triggering a second commit (§8 boundary behaviour).
func (d *Dispatcher) handleMouseButton(e *sdl.MouseButtonEvent, tables []*table.Record, index int, settings *config.Settings) {
	if e.Type != sdl.MOUSEBUTTONDOWN || e.Button != sdl.BUTTON_LEFT {
		return
	}
	now := time.Now()
	prev, ok := d.lastClick[e.WindowID]
	if ok && now.Sub(prev) <= doubleClickWindow {
		delete(d.lastClick, e.WindowID)
		d.commitGeometry(e.WindowID, tables, index, settings)
		return
	}
	d.lastClick[e.WindowID] = now
}

// commitGeometry persists a dragged window's geometry (§4.7, §8 S6):
// it records the live geometry into settings, saves settings through
// the Config Service, and dispatches whatever reload effects the save
// triggers (ReloadWindows when the committed geometry differs from the
// saved one; none when it does not).
func (d *Dispatcher) commitGeometry(windowID uint32, tables []*table.Record, index int, settings *config.Settings) {
	r, ok := d.windows.RoleForWindow(windowID)
	if !ok {
		return
	}
	d.windows.CommitGeometry(r, settings)
	d.logf(diag.LevelInfo, "committed dragged geometry for %s", r)

	if d.cfgSvc == nil {
		return
	}
	effects, err := d.cfgSvc.Save(settings)
	if err != nil {
		d.logf(diag.LevelError, "save settings after geometry commit: %v", err)
		return
	}
	d.applyReloadEffects(effects, tables, index, settings)
}

// applyReloadEffects runs the reload effects in the order Service.Save
// already sorted them into (§4.8's DispatchOrder), so a font reload
// always lands before the window/asset rebuild that would otherwise
// read the stale font.
func (d *Dispatcher) applyReloadEffects(effects []config.ReloadType, tables []*table.Record, index int, settings *config.Settings) {
	for _, rt := range effects {
		switch rt {
		case config.ReloadFont, config.ReloadTitle:
			if err := d.assetsMgr.ReloadFont(settings.FontPath, settings.FontSize); err != nil {
				d.logf(diag.LevelError, "reload font: %v", err)
			}
		case config.ReloadWindows:
			if err := d.windows.Update(settings); err != nil {
				d.logf(diag.LevelError, "reload windows: %v", err)
			}
			d.assetsMgr.HandleWindowsReload()
		case config.ReloadAssets:
			if index >= 0 && index < len(tables) {
				if err := d.assetsMgr.LoadTable(index, tables, settings, d.windows, d.soundMgr); err != nil {
					d.logf(diag.LevelError, "reload assets: %v", err)
				}
			}
		case config.ReloadAudio:
			d.soundMgr.UpdateSettings(settings)
		case config.ReloadTables:
			// vpx_tables_path only changes via a settings edit outside this
			// path; a full rescan trigger lives with the (out-of-scope)
			// scanner, not the window-commit path.
		case config.ReloadOverlay, config.ReloadNone:
			// overlay reads settings live every frame; nothing to invalidate.
		}
	}
}

// handleAction matches event against every action and, if gating
// allows it in the current state, dispatches it.
func (d *Dispatcher) handleAction(event sdl.Event, tables []*table.Record, index int, settings *config.Settings) int {
	if d.state == StateExternalAppActive || time.Since(d.lastExternalReturn) < debounceWindow {
		return index
	}
	for _, a := range keybind.AllActions {
		if !d.keys.Matches(event, a) {
			continue
		}
		if !d.allowed(a) {
			return index
		}
		return d.dispatch(a, tables, index, settings)
	}
	return index
}

// allowed implements the modal gating table from §4.7.
func (d *Dispatcher) allowed(a keybind.Action) bool {
	switch d.state {
	case StateLoadingTables:
		return a == keybind.ActionQuit
	case StateExternalAppActive:
		return false
	case StateConfigOpen:
		return a == d.openedBy || a == keybind.ActionQuit
	case StateEditorOpen:
		return a == d.openedBy || a == keybind.ActionQuit || a == keybind.ActionPreviousTable || a == keybind.ActionNextTable
	case StateCatalogOpen:
		return a == d.openedBy || a == keybind.ActionQuit
	case StateNormal:
		return a != keybind.ActionScreenshotKey && a != keybind.ActionScreenshotQuit
	default:
		return false
	}
}

func (d *Dispatcher) dispatch(a keybind.Action, tables []*table.Record, index int, settings *config.Settings) int {
	count := len(tables)
	next := index

	switch a {
	case keybind.ActionPreviousTable:
		next = wrapIndex(index-1, count)
		d.soundMgr.PlayUI(settings.ScrollPrevSound)
	case keybind.ActionNextTable:
		next = wrapIndex(index+1, count)
		d.soundMgr.PlayUI(settings.ScrollNextSound)
	case keybind.ActionFastPreviousTable:
		next = wrapIndex(index-10, count)
		d.soundMgr.PlayUI(settings.ScrollPrevSound)
	case keybind.ActionFastNextTable:
		next = wrapIndex(index+10, count)
		d.soundMgr.PlayUI(settings.ScrollNextSound)
	case keybind.ActionJumpPreviousLetter:
		next = jumpLetter(tables, index, false)
		d.soundMgr.PlayUI(settings.ScrollPrevSound)
	case keybind.ActionJumpNextLetter:
		next = jumpLetter(tables, index, true)
		d.soundMgr.PlayUI(settings.ScrollNextSound)
	case keybind.ActionRandomTable:
		if count > 0 {
			next = rand.Intn(count)
		}
		d.soundMgr.PlayUI(settings.ScrollNextSound)

	case keybind.ActionLaunchTable:
		d.launchTable(tables, index, settings)
		return index

	case keybind.ActionScreenshotMode:
		// Delegates entirely to the out-of-scope screenshot subsystem,
		// which captures its own key/quit events directly — that is why
		// ExternalAppActive's "ignore all actions" rule does not also
		// need a screenshot carve-out.
		d.state = StateExternalAppActive
		d.soundMgr.PlayUI(settings.LaunchScreenshotSound)

	case keybind.ActionToggleConfig:
		d.toggleModal(StateConfigOpen, a)
	case keybind.ActionToggleEditor:
		d.toggleModal(StateEditorOpen, a)
	case keybind.ActionToggleCatalog:
		d.toggleModal(StateCatalogOpen, a)
	case keybind.ActionToggleMetadata:
		settings.ShowMetadata = !settings.ShowMetadata
		d.soundMgr.PlayUI(settings.PanelToggleSound)

	case keybind.ActionQuit:
		d.handleQuit()
	}

	if next != index && count > 0 {
		if err := d.assetsMgr.LoadTable(next, tables, settings, d.windows, d.soundMgr); err != nil {
			d.logf(diag.LevelError, "load_table(%d): %v", next, err)
		}
	}
	return next
}

func (d *Dispatcher) toggleModal(open State, action keybind.Action) {
	if d.state == open {
		d.state = StateNormal
		d.openedBy = ""
	} else if d.state == StateNormal {
		d.state = open
		d.openedBy = action
	}
}

// handleQuit closes the frontmost modal if one is open; otherwise
// requests application exit (§4.7).
func (d *Dispatcher) handleQuit() {
	if d.state == StateNormal {
		d.shouldQuit = true
		return
	}
	d.state = StateNormal
	d.openedBy = ""
}

// launchTable implements §4.7's Launch Table handler: it enters
// ExternalAppActive synchronously, then hands off to C9. The callback
// runs on the launcher's supervisor goroutine, so it is posted to
// pending and drained at the top of the next Update — guaranteeing
// stats/media resumption complete before the next input poll (§5).
func (d *Dispatcher) launchTable(tables []*table.Record, index int, settings *config.Settings) {
	if index < 0 || index >= len(tables) {
		return
	}
	t := tables[index]

	d.state = StateExternalAppActive
	d.assetsMgr.StopAll()
	d.soundMgr.StopMusic()
	if t.LaunchAudio != "" {
		d.soundMgr.PlayCustomLaunch(t.LaunchAudio)
	} else {
		d.soundMgr.PlayUI(settings.LaunchTableSound)
	}

	d.launch.Launch(context.Background(), settings.VPinballXPath, settings.VPXStartArgs, settings.VPXSubCmd, settings.VPXEndArgs, t, func(res launcher.Result) {
		d.pending <- func() {
			launcher.ApplyStats(t, res)
			if d.stats != nil {
				if err := d.stats.SaveStats(t); err != nil {
					d.logf(diag.LevelWarning, "save stats for %s: %v", t.Title, err)
				}
			}
			d.lastExternalReturn = time.Now()
			d.state = StateNormal
			if err := d.assetsMgr.LoadTable(index, tables, settings, d.windows, d.soundMgr); err != nil {
				d.logf(diag.LevelError, "post-launch load_table(%d): %v", index, err)
			}
		}
	})
}

func wrapIndex(i, count int) int {
	if count <= 0 {
		return 0
	}
	i %= count
	if i < 0 {
		i += count
	}
	return i
}

// jumpChar returns the uppercased first letter/digit of title, and
// whether title has one (empty titles are skipped, §4.7).
func jumpChar(title string) (byte, bool) {
	t := strings.ToUpper(strings.TrimSpace(title))
	if t == "" {
		return 0, false
	}
	c := t[0]
	if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return c, true
	}
	return 0, false
}

// jumpLetter finds the next-smaller (backward) or next-greater
// (forward) first-character bucket in alphabetical order relative to
// the current table, wrapping if exhausted (§4.7, §8).
func jumpLetter(tables []*table.Record, index int, forward bool) int {
	if len(tables) == 0 {
		return index
	}
	cur, ok := jumpChar(tables[index].Title)
	if !ok {
		cur = 'A'
	}

	firstIndexOf := make(map[byte]int)
	for i, t := range tables {
		c, ok := jumpChar(t.Title)
		if !ok {
			continue
		}
		if _, exists := firstIndexOf[c]; !exists {
			firstIndexOf[c] = i
		}
	}
	if len(firstIndexOf) == 0 {
		return index
	}

	chars := make([]byte, 0, len(firstIndexOf))
	for c := range firstIndexOf {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	if forward {
		for _, c := range chars {
			if c > cur {
				return firstIndexOf[c]
			}
		}
		return firstIndexOf[chars[0]]
	}
	for i := len(chars) - 1; i >= 0; i-- {
		if chars[i] < cur {
			return firstIndexOf[chars[i]]
		}
	}
	return firstIndexOf[chars[len(chars)-1]]
}

func (d *Dispatcher) logf(level diag.Level, format string, args ...interface{}) {
	if d.log != nil {
		d.log.Logf(diag.ComponentInput, level, format, args...)
	}
}

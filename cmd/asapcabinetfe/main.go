// Command asapcabinetfe is the cabinet frontend's entry point: it wires
// every internal package together and runs the main render/input loop
// (§4, §5), grounded on cmd/emulator/main.go's bootstrap shape (flag
// parsing, sequential fatal-on-error construction, a final blocking
// Run) and internal/ui/ui.go's SDL init/teardown sequence.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"asapcabinetfe/internal/assets"
	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/diag"
	"asapcabinetfe/internal/input"
	"asapcabinetfe/internal/keybind"
	"asapcabinetfe/internal/launcher"
	"asapcabinetfe/internal/overlay"
	"asapcabinetfe/internal/render"
	"asapcabinetfe/internal/role"
	"asapcabinetfe/internal/scanner"
	"asapcabinetfe/internal/sound"
	"asapcabinetfe/internal/table"
	"asapcabinetfe/internal/texturecache"
	"asapcabinetfe/internal/videocache"
	"asapcabinetfe/internal/windowset"
)

// Version and Commit are baked in at build time via
// -ldflags "-X main.Version=... -X main.Commit=...".
var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	dataDir := flag.String("data-dir", defaultDataDir(), "directory holding settings.json, keybinds.json and table_stats.json")
	logLevel := flag.Bool("debug", false, "log at debug level instead of info")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("asapcabinetfe %s (%s)\n", Version, Commit)
		return
	}

	logger := diag.NewLogger(2000)
	if *logLevel {
		logger.SetMinLevel(diag.LevelDebug)
	}
	defer logger.Shutdown()

	if err := run(*dataDir, logger); err != nil {
		fmt.Fprintf(os.Stderr, "asapcabinetfe: %v\n", err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "asapcabinetfe")
	}
	return "."
}

func run(dataDir string, logger *diag.Logger) error {
	cfgSvc := config.New(dataDir, logger)
	settings, err := cfgSvc.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !cfgSvc.IsValid(settings) {
		return fmt.Errorf("config invalid: vpx_tables_path or vpinball_x_path does not point at a usable location")
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_JOYSTICK); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	if err := img.Init(img.INIT_PNG | img.INIT_JPG); err != nil {
		return fmt.Errorf("sdl image init: %w", err)
	}
	defer img.Quit()

	if err := ttf.Init(); err != nil {
		return fmt.Errorf("sdl ttf init: %w", err)
	}
	defer ttf.Quit()

	windows := windowset.New(logger)
	if err := windows.Update(settings); err != nil {
		if _, ok := err.(*windowset.RendererLostError); ok {
			return fmt.Errorf("renderer lost during startup: %w", err)
		}
		return fmt.Errorf("create windows: %w", err)
	}
	defer windows.DestroyAll()

	soundMgr, err := sound.New(logger)
	if err != nil {
		return fmt.Errorf("audio device unavailable: %w", err)
	}
	defer soundMgr.Close()
	soundMgr.ApplyAudioSettings(settings)

	titleRenderer, err := render.NewTitleRenderer(settings.FontPath, settings.FontSize)
	if err != nil {
		return fmt.Errorf("title renderer: %w", err)
	}
	defer titleRenderer.Close()

	texCache := texturecache.New(0, logger)
	vidCache := videocache.New(0, logger)
	assetsMgr := assets.NewManager(texCache, vidCache, titleRenderer, logger)
	defer assetsMgr.Cleanup()

	keys := keybind.NewStore(logger)
	loadKeybinds(dataDir, keys)
	defer saveKeybinds(dataDir, keys, logger)

	l := launcher.New(logger, settings.HealthyExitWhitelist, settings.BrokenExitWhitelist)
	stats := scanner.NewStatsSink(dataDir)
	dispatcher := input.New(logger, keys, windows, assetsMgr, l, soundMgr, stats, cfgSvc)

	if err := cfgSvc.Watch(func() {
		logger.Log(diag.ComponentConfig, diag.LevelInfo, "settings.json changed externally; restart to apply", nil)
	}); err != nil {
		logger.Logf(diag.ComponentConfig, diag.LevelWarning, "watch settings.json: %v", err)
	}

	results, errs := scanner.ScanAsync(settings.VPXTablesPath)
	var tables []*table.Record
	var index int

	start := time.Now()
	running := true
	for running {
		if dispatcher.State() == input.StateLoadingTables {
			select {
			case scanned := <-results:
				stats.Hydrate(scanned)
				tables = scanned
				dispatcher.FinishLoading()
				if len(tables) > 0 {
					if err := assetsMgr.LoadTable(0, tables, settings, windows, soundMgr); err != nil {
						logger.Logf(diag.ComponentAssetManager, diag.LevelError, "initial load_table: %v", err)
					}
				}
			case err := <-errs:
				logger.Logf(diag.ComponentSystem, diag.LevelError, "table scan failed: %v", err)
				dispatcher.FinishLoading()
			default:
			}
		}

		index = dispatcher.Update(tables, index, settings)
		if dispatcher.ShouldQuit() {
			running = false
			break
		}

		assetsMgr.AdvanceVideos()
		drawFrame(windows, assetsMgr, titleRenderer, settings, tables, index, start)
	}

	return nil
}

func drawFrame(windows *windowset.Set, assetsMgr *assets.Manager, titleRenderer *render.TitleRenderer, settings *config.Settings, tables []*table.Record, index int, start time.Time) {
	for _, r := range role.All {
		w := settings.Windows[r]
		if !w.Show {
			continue
		}
		renderer := windows.Renderer(r)
		if renderer == nil {
			continue
		}

		render.Clear(renderer)

		view := assetsMgr.RoleView(r)
		media := settings.Media[r]
		var wheelRect *sdl.Rect
		if settings.ShowWheel && settings.WheelWindow == r {
			wm := settings.WheelMedia[r]
			wheelRect = &sdl.Rect{X: int32(wm.X), Y: int32(wm.Y), W: int32(wm.Width), H: int32(wm.Height)}
		}
		var titleRect *sdl.Rect
		if settings.ShowTitle && settings.TitleWindow == r && view.TitleTexture != nil {
			titleRect = &sdl.Rect{X: int32(media.X), Y: int32(media.Y) + int32(media.Height) + 10, W: view.TitleW, H: view.TitleH}
		}
		render.Composite(renderer, view, media, wheelRect, titleRect, settings.FontBgColor)

		if r == role.Playfield && len(tables) > 0 {
			overlay.Draw(renderer, settings, tables[index], index, len(tables), int32(media.Width), int32(media.Height), time.Since(start), titleRenderer)
		}

		render.Present(renderer)
	}
}

func keybindsPath(dataDir string) string {
	return filepath.Join(dataDir, "keybinds.json")
}

// loadKeybinds hydrates the Store from its own JSON sidecar (§6
// "Keybinds"), kept separate from settings.json because bindings are
// keyed by Action rather than being fixed fieldTable scalars (§9).
func loadKeybinds(dataDir string, keys *keybind.Store) {
	raw, err := os.ReadFile(keybindsPath(dataDir))
	if err != nil {
		return
	}
	var doc map[string]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return
	}
	keys.Load(doc)
}

func saveKeybinds(dataDir string, keys *keybind.Store, logger *diag.Logger) {
	data, err := json.MarshalIndent(keys.Save(), "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return
	}
	path := keybindsPath(dataDir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logger.Logf(diag.ComponentConfig, diag.LevelWarning, "save keybinds: %v", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		logger.Logf(diag.ComponentConfig, diag.LevelWarning, "save keybinds: %v", err)
	}
}

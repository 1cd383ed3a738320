// Package config implements C8: the typed settings schema and the
// load/save/reload-effect service built on it (§4.8, §6).
package config

import (
	"fmt"
	"strconv"
	"strings"

	"asapcabinetfe/internal/role"
)

// ReloadType is one of the seven categories of work a settings diff can
// trigger (§4.8).
type ReloadType string

const (
	ReloadNone    ReloadType = "none"
	ReloadFont    ReloadType = "font"
	ReloadWindows ReloadType = "windows"
	ReloadAssets  ReloadType = "assets"
	ReloadTables  ReloadType = "tables"
	ReloadAudio   ReloadType = "audio"
	ReloadOverlay ReloadType = "overlay"
	ReloadTitle   ReloadType = "title"
)

// DispatchOrder is the fixed order reload effects must run in (§4.8):
// font first so title textures regenerate with new metrics, windows
// before assets so renderers exist when textures are rebound, assets
// before tables, then audio, and overlay last.
var DispatchOrder = []ReloadType{
	ReloadFont, ReloadTitle, ReloadWindows, ReloadAssets, ReloadTables, ReloadAudio, ReloadOverlay,
}

// Color is an RGBA8 settings value, serialised as "r,g,b,a".
type Color struct {
	R, G, B, A uint8
}

func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

// ParseColor parses the "r,g,b,a" representation written by Color.String.
func ParseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Color{}, fmt.Errorf("color %q: want 4 comma-separated components", s)
	}
	var vals [4]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("color %q: component %d out of range", s, i)
		}
		vals[i] = uint8(n)
	}
	return Color{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

// RoleWindow is the per-role subset of WindowSettings geometry.
type RoleWindow struct {
	Show   bool
	Width  int
	Height int
	X      int
	Y      int
}

// RoleMedia is the per-role subset of MediaDimensions.
type RoleMedia struct {
	Width    int
	Height   int
	X        int
	Y        int
	Rotation int
}

// Settings is the flat document described by §3/§6. It is kept flat
// deliberately (§9): the per-field fieldTable below, not struct nesting,
// is the source of truth for defaults, reload effects, and (de)serialisation.
type Settings struct {
	// VPX
	VPXTablesPath  string
	VPinballXPath  string
	VPXStartArgs   string
	VPXEndArgs     string
	VPXSubCmd      string

	// DPISettings
	EnableDPIScaling bool
	DPIScale         float64

	// WindowSettings (per role) + video backend
	Windows      map[role.Role]RoleWindow
	VideoBackend string

	// MediaDimensions (per role) + force_images_only. Per-role visibility
	// (show_backglass/dmd/topper, §6 WindowSettings) lives in Windows[r].Show
	// — the Asset Manager's per-role loader and the Window Set reconciler
	// read the same flag, so there is only one source of truth for it.
	Media           map[role.Role]RoleMedia
	WheelMedia      map[role.Role]RoleMedia
	ForceImagesOnly bool
	UseGeneratedArt bool

	// TitleDisplay
	ShowTitle   bool
	ShowWheel   bool
	TitleWindow role.Role
	WheelWindow role.Role
	FontPath    string
	FontColor   Color
	FontBgColor Color
	FontSize    int

	// AudioSettings
	MasterVol            float64
	MasterMute           bool
	MediaVol             float64
	MediaMute            bool
	TableMusicVol        float64
	TableMusicMute       bool
	InterfaceAudioVol    float64
	InterfaceAudioMute   bool
	InterfaceAmbienceVol float64
	InterfaceAmbienceMute bool

	// UISounds
	ScrollPrevSound     string
	ScrollNextSound     string
	LaunchTableSound    string
	LaunchScreenshotSound string
	PanelToggleSound    string
	ScreenshotTakeSound string
	AmbienceSound       string

	// TableMetadata
	ShowMetadata        bool
	MetadataPanelWidth  float64
	MetadataPanelHeight float64
	MetadataPanelAlpha  float64

	// UIWidgets
	ShowArrowHint      bool
	ShowScrollbar      bool
	ArrowTopColor      Color
	ArrowBottomColor   Color
	ArrowGlowColor     Color
	ScrollbarLengthFactor float64

	// Internal
	ScreenshotWait int

	// Exit-code classification (SPEC_FULL §C.2)
	HealthyExitWhitelist []int
	BrokenExitWhitelist  []int

	// dmd_still_images resolution (SPEC_FULL §C.4)
	GeneratedArtFramesDir string
}

// Field is one schema entry: a name, its reload effect, and accessor
// closures so diffing and (de)serialisation are pure functions over a
// Settings value rather than a pile of per-field setters (§9).
type Field struct {
	Name    string
	Section string
	Reload  ReloadType
	Get     func(*Settings) string
	Set     func(*Settings, string) error
}

// fieldTable enumerates the settings the reload-diff and persistence
// layers operate over. Per-role window/media fields are expanded for
// each of the four roles at init time.
var fieldTable []Field

func init() {
	fieldTable = append(fieldTable,
		Field{"vpx_tables_path", "VPX", ReloadTables, getStr(func(s *Settings) *string { return &s.VPXTablesPath }), setStr(func(s *Settings) *string { return &s.VPXTablesPath })},
		Field{"vpinball_x_path", "VPX", ReloadNone, getStr(func(s *Settings) *string { return &s.VPinballXPath }), setStr(func(s *Settings) *string { return &s.VPinballXPath })},
		Field{"vpx_start_args", "VPX", ReloadNone, getStr(func(s *Settings) *string { return &s.VPXStartArgs }), setStr(func(s *Settings) *string { return &s.VPXStartArgs })},
		Field{"vpx_end_args", "VPX", ReloadNone, getStr(func(s *Settings) *string { return &s.VPXEndArgs }), setStr(func(s *Settings) *string { return &s.VPXEndArgs })},
		Field{"vpx_sub_cmd", "VPX", ReloadNone, getStr(func(s *Settings) *string { return &s.VPXSubCmd }), setStr(func(s *Settings) *string { return &s.VPXSubCmd })},

		Field{"enable_dpi_scaling", "DPISettings", ReloadFont, getBool(func(s *Settings) *bool { return &s.EnableDPIScaling }), setBool(func(s *Settings) *bool { return &s.EnableDPIScaling })},
		Field{"dpi_scale", "DPISettings", ReloadFont, getFloat(func(s *Settings) *float64 { return &s.DPIScale }), setFloat(func(s *Settings) *float64 { return &s.DPIScale })},

		Field{"video_backend", "WindowSettings", ReloadAssets, getStr(func(s *Settings) *string { return &s.VideoBackend }), setStr(func(s *Settings) *string { return &s.VideoBackend })},
		Field{"force_images_only", "MediaDimensions", ReloadAssets, getBool(func(s *Settings) *bool { return &s.ForceImagesOnly }), setBool(func(s *Settings) *bool { return &s.ForceImagesOnly })},
		Field{"use_generated_art", "MediaDimensions", ReloadAssets, getBool(func(s *Settings) *bool { return &s.UseGeneratedArt }), setBool(func(s *Settings) *bool { return &s.UseGeneratedArt })},

		Field{"show_title", "TitleDisplay", ReloadAssets, getBool(func(s *Settings) *bool { return &s.ShowTitle }), setBool(func(s *Settings) *bool { return &s.ShowTitle })},
		Field{"show_wheel", "TitleDisplay", ReloadAssets, getBool(func(s *Settings) *bool { return &s.ShowWheel }), setBool(func(s *Settings) *bool { return &s.ShowWheel })},
		Field{"title_window", "TitleDisplay", ReloadAssets, getRole(func(s *Settings) *role.Role { return &s.TitleWindow }), setRole(func(s *Settings) *role.Role { return &s.TitleWindow })},
		Field{"wheel_window", "TitleDisplay", ReloadAssets, getRole(func(s *Settings) *role.Role { return &s.WheelWindow }), setRole(func(s *Settings) *role.Role { return &s.WheelWindow })},
		Field{"font_path", "TitleDisplay", ReloadFont, getStr(func(s *Settings) *string { return &s.FontPath }), setStr(func(s *Settings) *string { return &s.FontPath })},
		Field{"font_color", "TitleDisplay", ReloadFont, getColor(func(s *Settings) *Color { return &s.FontColor }), setColor(func(s *Settings) *Color { return &s.FontColor })},
		Field{"font_bg_color", "TitleDisplay", ReloadFont, getColor(func(s *Settings) *Color { return &s.FontBgColor }), setColor(func(s *Settings) *Color { return &s.FontBgColor })},
		Field{"font_size", "TitleDisplay", ReloadFont, getInt(func(s *Settings) *int { return &s.FontSize }), setInt(func(s *Settings) *int { return &s.FontSize })},

		Field{"master_vol", "AudioSettings", ReloadAudio, getFloat(func(s *Settings) *float64 { return &s.MasterVol }), setFloat(func(s *Settings) *float64 { return &s.MasterVol })},
		Field{"master_mute", "AudioSettings", ReloadAudio, getBool(func(s *Settings) *bool { return &s.MasterMute }), setBool(func(s *Settings) *bool { return &s.MasterMute })},
		Field{"media_vol", "AudioSettings", ReloadAudio, getFloat(func(s *Settings) *float64 { return &s.MediaVol }), setFloat(func(s *Settings) *float64 { return &s.MediaVol })},
		Field{"media_mute", "AudioSettings", ReloadAudio, getBool(func(s *Settings) *bool { return &s.MediaMute }), setBool(func(s *Settings) *bool { return &s.MediaMute })},
		Field{"table_music_vol", "AudioSettings", ReloadAudio, getFloat(func(s *Settings) *float64 { return &s.TableMusicVol }), setFloat(func(s *Settings) *float64 { return &s.TableMusicVol })},
		Field{"table_music_mute", "AudioSettings", ReloadAudio, getBool(func(s *Settings) *bool { return &s.TableMusicMute }), setBool(func(s *Settings) *bool { return &s.TableMusicMute })},
		Field{"interface_audio_vol", "AudioSettings", ReloadAudio, getFloat(func(s *Settings) *float64 { return &s.InterfaceAudioVol }), setFloat(func(s *Settings) *float64 { return &s.InterfaceAudioVol })},
		Field{"interface_audio_mute", "AudioSettings", ReloadAudio, getBool(func(s *Settings) *bool { return &s.InterfaceAudioMute }), setBool(func(s *Settings) *bool { return &s.InterfaceAudioMute })},
		Field{"interface_ambience_vol", "AudioSettings", ReloadAudio, getFloat(func(s *Settings) *float64 { return &s.InterfaceAmbienceVol }), setFloat(func(s *Settings) *float64 { return &s.InterfaceAmbienceVol })},
		Field{"interface_ambience_mute", "AudioSettings", ReloadAudio, getBool(func(s *Settings) *bool { return &s.InterfaceAmbienceMute }), setBool(func(s *Settings) *bool { return &s.InterfaceAmbienceMute })},

		Field{"scroll_prev_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.ScrollPrevSound }), setStr(func(s *Settings) *string { return &s.ScrollPrevSound })},
		Field{"scroll_next_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.ScrollNextSound }), setStr(func(s *Settings) *string { return &s.ScrollNextSound })},
		Field{"launch_table_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.LaunchTableSound }), setStr(func(s *Settings) *string { return &s.LaunchTableSound })},
		Field{"launch_screenshot_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.LaunchScreenshotSound }), setStr(func(s *Settings) *string { return &s.LaunchScreenshotSound })},
		Field{"panel_toggle_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.PanelToggleSound }), setStr(func(s *Settings) *string { return &s.PanelToggleSound })},
		Field{"screenshot_take_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.ScreenshotTakeSound }), setStr(func(s *Settings) *string { return &s.ScreenshotTakeSound })},
		Field{"ambience_sound", "UISounds", ReloadAudio, getStr(func(s *Settings) *string { return &s.AmbienceSound }), setStr(func(s *Settings) *string { return &s.AmbienceSound })},

		Field{"show_metadata", "TableMetadata", ReloadOverlay, getBool(func(s *Settings) *bool { return &s.ShowMetadata }), setBool(func(s *Settings) *bool { return &s.ShowMetadata })},
		Field{"metadata_panel_width", "TableMetadata", ReloadOverlay, getFloat(func(s *Settings) *float64 { return &s.MetadataPanelWidth }), setFloat(func(s *Settings) *float64 { return &s.MetadataPanelWidth })},
		Field{"metadata_panel_height", "TableMetadata", ReloadOverlay, getFloat(func(s *Settings) *float64 { return &s.MetadataPanelHeight }), setFloat(func(s *Settings) *float64 { return &s.MetadataPanelHeight })},
		Field{"metadata_panel_alpha", "TableMetadata", ReloadOverlay, getFloat(func(s *Settings) *float64 { return &s.MetadataPanelAlpha }), setFloat(func(s *Settings) *float64 { return &s.MetadataPanelAlpha })},

		Field{"show_arrow_hint", "UIWidgets", ReloadOverlay, getBool(func(s *Settings) *bool { return &s.ShowArrowHint }), setBool(func(s *Settings) *bool { return &s.ShowArrowHint })},
		Field{"show_scrollbar", "UIWidgets", ReloadOverlay, getBool(func(s *Settings) *bool { return &s.ShowScrollbar }), setBool(func(s *Settings) *bool { return &s.ShowScrollbar })},
		Field{"arrow_top_color", "UIWidgets", ReloadOverlay, getColor(func(s *Settings) *Color { return &s.ArrowTopColor }), setColor(func(s *Settings) *Color { return &s.ArrowTopColor })},
		Field{"arrow_bottom_color", "UIWidgets", ReloadOverlay, getColor(func(s *Settings) *Color { return &s.ArrowBottomColor }), setColor(func(s *Settings) *Color { return &s.ArrowBottomColor })},
		Field{"arrow_glow_color", "UIWidgets", ReloadOverlay, getColor(func(s *Settings) *Color { return &s.ArrowGlowColor }), setColor(func(s *Settings) *Color { return &s.ArrowGlowColor })},
		Field{"scrollbar_length_factor", "UIWidgets", ReloadOverlay, getFloat(func(s *Settings) *float64 { return &s.ScrollbarLengthFactor }), setFloat(func(s *Settings) *float64 { return &s.ScrollbarLengthFactor })},

		Field{"screenshot_wait", "Internal", ReloadNone, getInt(func(s *Settings) *int { return &s.ScreenshotWait }), setInt(func(s *Settings) *int { return &s.ScreenshotWait })},
		Field{"generated_art_frames_dir", "Internal", ReloadAssets, getStr(func(s *Settings) *string { return &s.GeneratedArtFramesDir }), setStr(func(s *Settings) *string { return &s.GeneratedArtFramesDir })},
	)

	for _, r := range role.All {
		r := r
		fieldTable = append(fieldTable,
			Field{string(r) + "_show", "WindowSettings", ReloadWindows,
				func(s *Settings) string { return strconv.FormatBool(s.Windows[r].Show) },
				func(s *Settings, v string) error { return setWindowBool(s, r, v, func(w *RoleWindow) *bool { return &w.Show }) }},
			Field{string(r) + "_window_width", "WindowSettings", ReloadWindows,
				func(s *Settings) string { return strconv.Itoa(s.Windows[r].Width) },
				func(s *Settings, v string) error { return setWindowInt(s, r, v, func(w *RoleWindow) *int { return &w.Width }) }},
			Field{string(r) + "_window_height", "WindowSettings", ReloadWindows,
				func(s *Settings) string { return strconv.Itoa(s.Windows[r].Height) },
				func(s *Settings, v string) error { return setWindowInt(s, r, v, func(w *RoleWindow) *int { return &w.Height }) }},
			Field{string(r) + "_window_x", "WindowSettings", ReloadWindows,
				func(s *Settings) string { return strconv.Itoa(s.Windows[r].X) },
				func(s *Settings, v string) error { return setWindowInt(s, r, v, func(w *RoleWindow) *int { return &w.X }) }},
			Field{string(r) + "_window_y", "WindowSettings", ReloadWindows,
				func(s *Settings) string { return strconv.Itoa(s.Windows[r].Y) },
				func(s *Settings, v string) error { return setWindowInt(s, r, v, func(w *RoleWindow) *int { return &w.Y }) }},

			Field{string(r) + "_media_width", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.Media[r].Width) },
				func(s *Settings, v string) error { return setMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Width }) }},
			Field{string(r) + "_media_height", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.Media[r].Height) },
				func(s *Settings, v string) error { return setMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Height }) }},
			Field{string(r) + "_media_x", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.Media[r].X) },
				func(s *Settings, v string) error { return setMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.X }) }},
			Field{string(r) + "_media_y", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.Media[r].Y) },
				func(s *Settings, v string) error { return setMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Y }) }},
			Field{string(r) + "_media_rotation", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.Media[r].Rotation) },
				func(s *Settings, v string) error { return setMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Rotation }) }},

			Field{string(r) + "_wheel_media_width", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.WheelMedia[r].Width) },
				func(s *Settings, v string) error { return setWheelMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Width }) }},
			Field{string(r) + "_wheel_media_height", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.WheelMedia[r].Height) },
				func(s *Settings, v string) error { return setWheelMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Height }) }},
			Field{string(r) + "_wheel_media_x", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.WheelMedia[r].X) },
				func(s *Settings, v string) error { return setWheelMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.X }) }},
			Field{string(r) + "_wheel_media_y", "MediaDimensions", ReloadAssets,
				func(s *Settings) string { return strconv.Itoa(s.WheelMedia[r].Y) },
				func(s *Settings, v string) error { return setWheelMediaInt(s, r, v, func(m *RoleMedia) *int { return &m.Y }) }},
		)
	}
}

func getStr(f func(*Settings) *string) func(*Settings) string {
	return func(s *Settings) string { return *f(s) }
}
func setStr(f func(*Settings) *string) func(*Settings, string) error {
	return func(s *Settings, v string) error { *f(s) = v; return nil }
}
func getBool(f func(*Settings) *bool) func(*Settings) string {
	return func(s *Settings) string { return strconv.FormatBool(*f(s)) }
}
func setBool(f func(*Settings) *bool) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*f(s) = b
		return nil
	}
}
func getInt(f func(*Settings) *int) func(*Settings) string {
	return func(s *Settings) string { return strconv.Itoa(*f(s)) }
}
func setInt(f func(*Settings) *int) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*f(s) = n
		return nil
	}
}
func getFloat(f func(*Settings) *float64) func(*Settings) string {
	return func(s *Settings) string { return strconv.FormatFloat(*f(s), 'f', -1, 64) }
}
func setFloat(f func(*Settings) *float64) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*f(s) = n
		return nil
	}
}
func getColor(f func(*Settings) *Color) func(*Settings) string {
	return func(s *Settings) string { return f(s).String() }
}
func setColor(f func(*Settings) *Color) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		c, err := ParseColor(v)
		if err != nil {
			return err
		}
		*f(s) = c
		return nil
	}
}
func getRole(f func(*Settings) *role.Role) func(*Settings) string {
	return func(s *Settings) string { return string(*f(s)) }
}
func setRole(f func(*Settings) *role.Role) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		if !role.Valid(v) {
			return fmt.Errorf("not a valid role: %q", v)
		}
		*f(s) = role.Role(v)
		return nil
	}
}

func setWindowBool(s *Settings, r role.Role, v string, f func(*RoleWindow) *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	w := s.Windows[r]
	*f(&w) = b
	s.Windows[r] = w
	return nil
}
func setWindowInt(s *Settings, r role.Role, v string, f func(*RoleWindow) *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	w := s.Windows[r]
	*f(&w) = n
	s.Windows[r] = w
	return nil
}
func setMediaInt(s *Settings, r role.Role, v string, f func(*RoleMedia) *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	m := s.Media[r]
	*f(&m) = n
	s.Media[r] = m
	return nil
}
func setWheelMediaInt(s *Settings, r role.Role, v string, f func(*RoleMedia) *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	m := s.WheelMedia[r]
	*f(&m) = n
	s.WheelMedia[r] = m
	return nil
}

// DefaultSettings returns the schema defaults (§6).
func DefaultSettings() *Settings {
	s := &Settings{
		VPXStartArgs:     "",
		VPXEndArgs:       "",
		VPXSubCmd:        "",
		EnableDPIScaling: true,
		DPIScale:         1.0,
		VideoBackend:     "vlc",
		ForceImagesOnly:  false,
		ShowTitle:        true,
		ShowWheel:        true,
		TitleWindow:      role.Playfield,
		WheelWindow:      role.Playfield,
		FontPath:         "",
		FontColor:        Color{255, 255, 255, 255},
		FontBgColor:      Color{0, 0, 0, 180},
		FontSize:         28,

		MasterVol: 100, MasterMute: false,
		MediaVol: 60, MediaMute: false,
		TableMusicVol: 60, TableMusicMute: false,
		InterfaceAudioVol: 60, InterfaceAudioMute: false,
		InterfaceAmbienceVol: 60, InterfaceAmbienceMute: false,

		ShowMetadata:        true,
		MetadataPanelWidth:  400,
		MetadataPanelHeight: 120,
		MetadataPanelAlpha:  0.85,

		ShowArrowHint:         true,
		ShowScrollbar:         true,
		ArrowTopColor:         Color{255, 255, 255, 255},
		ArrowBottomColor:      Color{200, 200, 200, 255},
		ArrowGlowColor:        Color{255, 215, 0, 180},
		ScrollbarLengthFactor: 0.6,

		ScreenshotWait: 4,

		HealthyExitWhitelist: []int{0, 130, 143},
		BrokenExitWhitelist:  []int{},

		GeneratedArtFramesDir: "",
	}

	s.Windows = map[role.Role]RoleWindow{
		role.Playfield: {Show: true, Width: 1080, Height: 1920, X: 0, Y: 0},
		role.Backglass: {Show: true, Width: 1024, Height: 768, X: 1080, Y: 0},
		role.DMD:       {Show: true, Width: 1024, Height: 256, X: 1080, Y: 768},
		role.Topper:    {Show: false, Width: 1024, Height: 256, X: 1080, Y: 1024},
	}
	s.Media = map[role.Role]RoleMedia{
		role.Playfield: {Width: 1080, Height: 1920, X: 0, Y: 0, Rotation: 0},
		role.Backglass: {Width: 1024, Height: 768, X: 0, Y: 0, Rotation: 0},
		role.DMD:       {Width: 1024, Height: 256, X: 0, Y: 0, Rotation: 0},
		role.Topper:    {Width: 1024, Height: 256, X: 0, Y: 0, Rotation: 0},
	}
	s.WheelMedia = map[role.Role]RoleMedia{
		role.Playfield: {Width: 150, Height: 150, X: 20, Y: 20},
		role.Backglass: {Width: 150, Height: 150, X: 20, Y: 20},
		role.DMD:       {Width: 0, Height: 0, X: 0, Y: 0},
		role.Topper:    {Width: 0, Height: 0, X: 0, Y: 0},
	}
	return s
}

// Clone returns a deep copy so callers can mutate one Settings value
// (e.g. an in-editor draft) without aliasing the service's baseline.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Windows = make(map[role.Role]RoleWindow, len(s.Windows))
	for k, v := range s.Windows {
		c.Windows[k] = v
	}
	c.Media = make(map[role.Role]RoleMedia, len(s.Media))
	for k, v := range s.Media {
		c.Media[k] = v
	}
	c.WheelMedia = make(map[role.Role]RoleMedia, len(s.WheelMedia))
	for k, v := range s.WheelMedia {
		c.WheelMedia[k] = v
	}
	c.HealthyExitWhitelist = append([]int(nil), s.HealthyExitWhitelist...)
	c.BrokenExitWhitelist = append([]int(nil), s.BrokenExitWhitelist...)
	return &c
}

// Clamp enforces §3's invariants on the fields that carry them.
func (s *Settings) Clamp() {
	if s.DPIScale < 0.5 {
		s.DPIScale = 0.5
	} else if s.DPIScale > 3.0 {
		s.DPIScale = 3.0
	}
	for _, vol := range []*float64{
		&s.MasterVol, &s.MediaVol, &s.TableMusicVol, &s.InterfaceAudioVol, &s.InterfaceAmbienceVol,
	} {
		if *vol < 0 {
			*vol = 0
		} else if *vol > 100 {
			*vol = 100
		}
	}
	for r, m := range s.Media {
		switch m.Rotation {
		case 0, 90, 180, 270:
		default:
			m.Rotation = 0
			s.Media[r] = m
		}
	}
}

// ApplyDPIPostProcessing multiplies font_size by dpi_scale on load, per §3.
func (s *Settings) ApplyDPIPostProcessing() {
	if s.EnableDPIScaling {
		s.FontSize = int(float64(s.FontSize) * s.DPIScale)
	}
}

// Package keybind implements C6: the action→binding store, built
// directly against go-sdl2/sdl's own event types (no teacher analogue —
// the emulator used a fixed hardware button mask, not a rebindable
// action table) per §4.6.
package keybind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/diag"
)

// Action names one dispatchable input action.
type Action string

const (
	ActionPreviousTable     Action = "previous_table"
	ActionNextTable         Action = "next_table"
	ActionFastPreviousTable Action = "fast_previous_table"
	ActionFastNextTable     Action = "fast_next_table"
	ActionJumpPreviousLetter Action = "jump_previous_letter"
	ActionJumpNextLetter    Action = "jump_next_letter"
	ActionRandomTable       Action = "random_table"
	ActionLaunchTable       Action = "launch_table"
	ActionScreenshotMode    Action = "screenshot_mode"
	ActionScreenshotKey     Action = "screenshot_key"
	ActionScreenshotQuit    Action = "screenshot_quit"
	ActionToggleConfig      Action = "toggle_config"
	ActionToggleEditor      Action = "toggle_editor"
	ActionToggleCatalog     Action = "toggle_catalog"
	ActionToggleMetadata    Action = "toggle_metadata"
	ActionQuit              Action = "quit"
)

// AllActions is every action the store holds a binding for.
var AllActions = []Action{
	ActionPreviousTable, ActionNextTable, ActionFastPreviousTable, ActionFastNextTable,
	ActionJumpPreviousLetter, ActionJumpNextLetter, ActionRandomTable, ActionLaunchTable,
	ActionScreenshotMode, ActionScreenshotKey, ActionScreenshotQuit,
	ActionToggleConfig, ActionToggleEditor, ActionToggleCatalog, ActionToggleMetadata, ActionQuit,
}

// HatDirection is one of the four hat-switch directions.
type HatDirection int

const (
	HatUp HatDirection = iota
	HatDown
	HatLeft
	HatRight
)

func (d HatDirection) String() string {
	switch d {
	case HatUp:
		return "UP"
	case HatDown:
		return "DOWN"
	case HatLeft:
		return "LEFT"
	case HatRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// mask maps a direction onto the SDL hat bitmask.
func (d HatDirection) mask() uint8 {
	switch d {
	case HatUp:
		return sdl.HAT_UP
	case HatDown:
		return sdl.HAT_DOWN
	case HatLeft:
		return sdl.HAT_LEFT
	case HatRight:
		return sdl.HAT_RIGHT
	default:
		return 0
	}
}

// axisDeadband is the deadband threshold from §4.6 (16384 of max 32768).
const axisDeadband = 16384

// Binding is one of the four input-binding variants from §3.
type Binding struct {
	Kind Kind

	Key sdl.Keycode // Kind == KindKey

	JoystickID int32 // Kind == KindButton | KindHat | KindAxis
	Button     uint8 // Kind == KindButton
	Hat        uint8 // Kind == KindHat
	HatDir     HatDirection
	Axis       uint8 // Kind == KindAxis
	Positive   bool  // Kind == KindAxis
}

// Kind discriminates the Binding variant.
type Kind int

const (
	KindKey Kind = iota
	KindButton
	KindHat
	KindAxis
)

// String renders the canonical round-trip form (§4.6 event_to_binding_string).
func (b Binding) String() string {
	switch b.Kind {
	case KindKey:
		return sdl.GetKeyName(b.Key)
	case KindButton:
		return fmt.Sprintf("JOY_%d_BUTTON_%d", b.JoystickID, b.Button)
	case KindHat:
		return fmt.Sprintf("JOY_%d_HAT_%d_%s", b.JoystickID, b.Hat, b.HatDir)
	case KindAxis:
		sign := "POSITIVE"
		if !b.Positive {
			sign = "NEGATIVE"
		}
		return fmt.Sprintf("JOY_%d_AXIS_%d_%s", b.JoystickID, b.Axis, sign)
	default:
		return ""
	}
}

// Parse is the inverse of String. An unrecognised token is reported via
// the returned error; callers (Store.Load) keep the default on failure
// rather than propagating the error, per §4.6.
func Parse(s string) (Binding, error) {
	if !strings.HasPrefix(s, "JOY_") {
		key := sdl.GetKeyFromName(s)
		if key == sdl.K_UNKNOWN {
			return Binding{}, fmt.Errorf("keybind: unknown key name %q", s)
		}
		return Binding{Kind: KindKey, Key: key}, nil
	}

	parts := strings.Split(s, "_")
	if len(parts) < 4 {
		return Binding{}, fmt.Errorf("keybind: malformed joystick token %q", s)
	}
	joyID, err := strconv.Atoi(parts[1])
	if err != nil {
		return Binding{}, fmt.Errorf("keybind: bad joystick id in %q: %w", s, err)
	}

	switch parts[2] {
	case "BUTTON":
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return Binding{}, fmt.Errorf("keybind: bad button index in %q: %w", s, err)
		}
		return Binding{Kind: KindButton, JoystickID: int32(joyID), Button: uint8(n)}, nil
	case "HAT":
		if len(parts) != 5 {
			return Binding{}, fmt.Errorf("keybind: malformed hat token %q", s)
		}
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return Binding{}, fmt.Errorf("keybind: bad hat index in %q: %w", s, err)
		}
		dir, err := parseHatDir(parts[4])
		if err != nil {
			return Binding{}, err
		}
		return Binding{Kind: KindHat, JoystickID: int32(joyID), Hat: uint8(n), HatDir: dir}, nil
	case "AXIS":
		if len(parts) != 5 {
			return Binding{}, fmt.Errorf("keybind: malformed axis token %q", s)
		}
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return Binding{}, fmt.Errorf("keybind: bad axis index in %q: %w", s, err)
		}
		return Binding{Kind: KindAxis, JoystickID: int32(joyID), Axis: uint8(n), Positive: parts[4] == "POSITIVE"}, nil
	default:
		return Binding{}, fmt.Errorf("keybind: unknown joystick binding kind in %q", s)
	}
}

func parseHatDir(s string) (HatDirection, error) {
	switch s {
	case "UP":
		return HatUp, nil
	case "DOWN":
		return HatDown, nil
	case "LEFT":
		return HatLeft, nil
	case "RIGHT":
		return HatRight, nil
	default:
		return 0, fmt.Errorf("keybind: unknown hat direction %q", s)
	}
}

// Store holds one Binding per Action.
type Store struct {
	bindings map[Action]Binding
	log      *diag.Logger
}

// NewStore creates a Store populated with the defaults (§4.6).
func NewStore(logger *diag.Logger) *Store {
	s := &Store{bindings: defaultBindings(), log: logger}
	return s
}

func defaultBindings() map[Action]Binding {
	return map[Action]Binding{
		ActionPreviousTable:      {Kind: KindKey, Key: sdl.K_LEFT},
		ActionNextTable:          {Kind: KindKey, Key: sdl.K_RIGHT},
		ActionFastPreviousTable:  {Kind: KindKey, Key: sdl.K_PAGEUP},
		ActionFastNextTable:      {Kind: KindKey, Key: sdl.K_PAGEDOWN},
		ActionJumpPreviousLetter: {Kind: KindKey, Key: sdl.K_LEFTBRACKET},
		ActionJumpNextLetter:     {Kind: KindKey, Key: sdl.K_RIGHTBRACKET},
		ActionRandomTable:        {Kind: KindKey, Key: sdl.K_r},
		ActionLaunchTable:        {Kind: KindKey, Key: sdl.K_RETURN},
		ActionScreenshotMode:     {Kind: KindKey, Key: sdl.K_F9},
		ActionScreenshotKey:      {Kind: KindKey, Key: sdl.K_SPACE},
		ActionScreenshotQuit:     {Kind: KindKey, Key: sdl.K_ESCAPE},
		ActionToggleConfig:       {Kind: KindKey, Key: sdl.K_c},
		ActionToggleEditor:       {Kind: KindKey, Key: sdl.K_e},
		ActionToggleCatalog:      {Kind: KindKey, Key: sdl.K_TAB},
		ActionToggleMetadata:     {Kind: KindKey, Key: sdl.K_m},
		ActionQuit:               {Kind: KindKey, Key: sdl.K_q},
	}
}

// Get returns the binding for action.
func (s *Store) Get(a Action) Binding { return s.bindings[a] }

// Set rebinds action, used by the (out-of-scope) editor UI.
func (s *Store) Set(a Action, b Binding) { s.bindings[a] = b }

// Matches implements binding_matches(event, action) from §4.6: it
// compares the event against the stored Binding per-variant, including
// the axis deadband filter.
func (s *Store) Matches(event sdl.Event, a Action) bool {
	b, ok := s.bindings[a]
	if !ok {
		return false
	}
	switch e := event.(type) {
	case *sdl.KeyboardEvent:
		return b.Kind == KindKey && e.Type == sdl.KEYDOWN && e.Keysym.Sym == b.Key
	case *sdl.JoyButtonEvent:
		return b.Kind == KindButton && e.Type == sdl.JOYBUTTONDOWN &&
			int32(e.Which) == b.JoystickID && e.Button == b.Button
	case *sdl.JoyHatEvent:
		return b.Kind == KindHat && int32(e.Which) == b.JoystickID && e.Hat == b.Hat &&
			e.Value == b.HatDir.mask()
	case *sdl.JoyAxisEvent:
		if b.Kind != KindAxis || int32(e.Which) != b.JoystickID || e.Axis != b.Axis {
			return false
		}
		val := int32(e.Value)
		if b.Positive {
			return val > axisDeadband
		}
		return val < -axisDeadband
	default:
		return false
	}
}

// EventToBindingString converts a raw SDL event into its canonical
// binding string, for the rebind-editor round trip (§4.6).
func EventToBindingString(event sdl.Event) (string, bool) {
	switch e := event.(type) {
	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return "", false
		}
		return Binding{Kind: KindKey, Key: e.Keysym.Sym}.String(), true
	case *sdl.JoyButtonEvent:
		if e.Type != sdl.JOYBUTTONDOWN {
			return "", false
		}
		return Binding{Kind: KindButton, JoystickID: int32(e.Which), Button: e.Button}.String(), true
	case *sdl.JoyHatEvent:
		dir, ok := directionFromMask(e.Value)
		if !ok {
			return "", false
		}
		return Binding{Kind: KindHat, JoystickID: int32(e.Which), Hat: e.Hat, HatDir: dir}.String(), true
	case *sdl.JoyAxisEvent:
		val := int32(e.Value)
		if val > axisDeadband {
			return Binding{Kind: KindAxis, JoystickID: int32(e.Which), Axis: e.Axis, Positive: true}.String(), true
		}
		if val < -axisDeadband {
			return Binding{Kind: KindAxis, JoystickID: int32(e.Which), Axis: e.Axis, Positive: false}.String(), true
		}
		return "", false
	default:
		return "", false
	}
}

func directionFromMask(mask uint8) (HatDirection, bool) {
	switch mask {
	case sdl.HAT_UP:
		return HatUp, true
	case sdl.HAT_DOWN:
		return HatDown, true
	case sdl.HAT_LEFT:
		return HatLeft, true
	case sdl.HAT_RIGHT:
		return HatRight, true
	default:
		return 0, false
	}
}

// Load replaces bindings from an action→string map (e.g. the
// keybinds.json sidecar that cmd/asapcabinetfe reads). Unknown tokens keep their current (default)
// binding and are logged, never fatal (§4.6).
func (s *Store) Load(raw map[string]string) {
	for _, a := range AllActions {
		tok, ok := raw[string(a)]
		if !ok {
			continue
		}
		b, err := Parse(tok)
		if err != nil {
			if s.log != nil {
				s.log.Logf(diag.ComponentKeybind, diag.LevelWarning, "binding for %s: %v (keeping default)", a, err)
			}
			continue
		}
		s.bindings[a] = b
	}
}

// Save serialises the current bindings into the Keybinds section shape.
func (s *Store) Save() map[string]string {
	out := make(map[string]string, len(s.bindings))
	for a, b := range s.bindings {
		out[string(a)] = b.String()
	}
	return out
}

package input

import (
	"testing"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/keybind"
	"asapcabinetfe/internal/table"
	"asapcabinetfe/internal/windowset"
)

func TestWrapIndex(t *testing.T) {
	cases := []struct {
		i, count, want int
	}{
		{0, 5, 0},
		{-1, 5, 4},
		{5, 5, 0},
		{-7, 5, 3},
		{0, 0, 0},
		{3, 0, 0},
	}
	for _, c := range cases {
		if got := wrapIndex(c.i, c.count); got != c.want {
			t.Fatalf("wrapIndex(%d, %d) = %d, want %d", c.i, c.count, got, c.want)
		}
	}
}

func titledTables(titles ...string) []*table.Record {
	out := make([]*table.Record, len(titles))
	for i, ti := range titles {
		out[i] = &table.Record{Title: ti}
	}
	return out
}

func TestJumpLetterForward(t *testing.T) {
	tables := titledTables("Attack From Mars", "Cirqus Voltaire", "Medieval Madness", "Theatre of Magic")
	if got := jumpLetter(tables, 0, true); got != 1 {
		t.Fatalf("expected jump from A to C (index 1), got %d", got)
	}
	if got := jumpLetter(tables, 3, true); got != 0 {
		t.Fatalf("expected wrap from T back to A (index 0), got %d", got)
	}
}

func TestJumpLetterBackward(t *testing.T) {
	tables := titledTables("Attack From Mars", "Cirqus Voltaire", "Medieval Madness", "Theatre of Magic")
	if got := jumpLetter(tables, 3, false); got != 2 {
		t.Fatalf("expected jump from T to M (index 2), got %d", got)
	}
	if got := jumpLetter(tables, 0, false); got != 3 {
		t.Fatalf("expected wrap from A back to T (index 3), got %d", got)
	}
}

func TestJumpLetterSkipsEmptyTitles(t *testing.T) {
	tables := titledTables("Attack From Mars", "", "Medieval Madness")
	if got := jumpLetter(tables, 0, true); got != 2 {
		t.Fatalf("expected empty-titled entry to be skipped, got %d", got)
	}
}

func TestJumpLetterEmptyInput(t *testing.T) {
	if got := jumpLetter(nil, 0, true); got != 0 {
		t.Fatalf("expected index 0 for empty table list, got %d", got)
	}
}

func TestAllowedGating(t *testing.T) {
	d := &Dispatcher{}

	d.state = StateNormal
	if !d.allowed(keybind.ActionNextTable) {
		t.Fatalf("expected next_table allowed in Normal")
	}
	if d.allowed(keybind.ActionScreenshotKey) {
		t.Fatalf("expected screenshot_key disallowed in Normal")
	}

	d.state = StateExternalAppActive
	if d.allowed(keybind.ActionQuit) {
		t.Fatalf("expected nothing allowed in ExternalAppActive")
	}

	d.state, d.openedBy = StateConfigOpen, keybind.ActionToggleConfig
	if !d.allowed(keybind.ActionToggleConfig) {
		t.Fatalf("expected the opening action to close its own modal")
	}
	if d.allowed(keybind.ActionNextTable) {
		t.Fatalf("expected navigation disallowed while ConfigOpen")
	}
	if !d.allowed(keybind.ActionQuit) {
		t.Fatalf("expected quit allowed while ConfigOpen")
	}

	d.state, d.openedBy = StateEditorOpen, keybind.ActionToggleEditor
	if !d.allowed(keybind.ActionNextTable) {
		t.Fatalf("expected table navigation allowed while EditorOpen")
	}

	d.state = StateLoadingTables
	if d.allowed(keybind.ActionNextTable) {
		t.Fatalf("expected only quit allowed while LoadingTables")
	}
	if !d.allowed(keybind.ActionQuit) {
		t.Fatalf("expected quit allowed while LoadingTables")
	}
}

func TestHandleMouseButtonDoubleClickCommits(t *testing.T) {
	d := &Dispatcher{windows: windowset.New(nil), lastClick: make(map[uint32]time.Time)}

	click := func() {
		d.handleMouseButton(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, WindowID: 1}, nil, 0, nil)
	}

	click()
	if _, ok := d.lastClick[1]; !ok {
		t.Fatalf("expected first click to be recorded")
	}

	click()
	if _, ok := d.lastClick[1]; ok {
		t.Fatalf("expected matched double-click to clear the recorded click")
	}
}

func TestHandleMouseButtonIgnoresOtherButtons(t *testing.T) {
	d := &Dispatcher{windows: windowset.New(nil), lastClick: make(map[uint32]time.Time)}
	d.handleMouseButton(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, WindowID: 1}, nil, 0, nil)
	if len(d.lastClick) != 0 {
		t.Fatalf("expected right-button clicks to be ignored")
	}
}

package keybind

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestBindingStringRoundTripJoystick(t *testing.T) {
	cases := []Binding{
		{Kind: KindButton, JoystickID: 0, Button: 3},
		{Kind: KindHat, JoystickID: 1, Hat: 0, HatDir: HatUp},
		{Kind: KindAxis, JoystickID: 2, Axis: 1, Positive: true},
		{Kind: KindAxis, JoystickID: 2, Axis: 1, Positive: false},
	}
	for _, want := range cases {
		s := want.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch for %q: got %+v, want %+v", s, got, want)
		}
	}
}

func TestParseKey(t *testing.T) {
	b, err := Parse("Q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Kind != KindKey || b.Key != sdl.K_q {
		t.Fatalf("expected KindKey K_q, got %+v", b)
	}
}

func TestParseUnknownToken(t *testing.T) {
	if _, err := Parse("NOT_A_REAL_KEY_NAME"); err == nil {
		t.Fatalf("expected error for unknown key name")
	}
	if _, err := Parse("JOY_0_BUTTON"); err == nil {
		t.Fatalf("expected error for malformed joystick token")
	}
	if _, err := Parse("JOY_x_BUTTON_1"); err == nil {
		t.Fatalf("expected error for non-numeric joystick id")
	}
}

func TestStoreLoadKeepsDefaultOnBadToken(t *testing.T) {
	s := NewStore(nil)
	original := s.Get(ActionQuit)

	s.Load(map[string]string{
		string(ActionQuit):        "NOT_A_REAL_KEY_NAME",
		string(ActionNextTable):   "RIGHT",
		"unknown_action_from_future_version": "X",
	})

	if got := s.Get(ActionQuit); got != original {
		t.Fatalf("expected quit binding unchanged after bad token, got %+v", got)
	}
	if got := s.Get(ActionNextTable); got.Kind != KindKey || got.Key != sdl.K_RIGHT {
		t.Fatalf("expected next_table rebound to RIGHT, got %+v", got)
	}
}

func TestStoreSaveRoundTrip(t *testing.T) {
	s := NewStore(nil)
	s.Set(ActionQuit, Binding{Kind: KindKey, Key: sdl.K_ESCAPE})

	saved := s.Save()
	fresh := NewStore(nil)
	fresh.Load(saved)

	if got := fresh.Get(ActionQuit); got.Kind != KindKey || got.Key != sdl.K_ESCAPE {
		t.Fatalf("expected quit rebound to ESCAPE after save/load round trip, got %+v", got)
	}
}

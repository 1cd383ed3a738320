package config

import (
	"testing"

	"asapcabinetfe/internal/role"
)

func TestFieldTableGetSetRoundTrip(t *testing.T) {
	s := DefaultSettings()
	for _, f := range fieldTable {
		before := f.Get(s)
		if err := f.Set(s, before); err != nil {
			t.Fatalf("field %q: Set(Get()) failed: %v", f.Name, err)
		}
		if after := f.Get(s); after != before {
			t.Fatalf("field %q: round trip mismatch, got %q want %q", f.Name, after, before)
		}
	}
}

func TestFieldTableNoDuplicateNames(t *testing.T) {
	seen := make(map[string]bool, len(fieldTable))
	for _, f := range fieldTable {
		if seen[f.Name] {
			t.Fatalf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}
}

func TestWheelMediaRoundTripsThroughFieldTable(t *testing.T) {
	s := DefaultSettings()
	name := string(role.Playfield) + "_wheel_media_width"

	var field *Field
	for i := range fieldTable {
		if fieldTable[i].Name == name {
			field = &fieldTable[i]
			break
		}
	}
	if field == nil {
		t.Fatalf("expected a %q field", name)
	}
	if err := field.Set(s, "42"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.WheelMedia[role.Playfield].Width != 42 {
		t.Fatalf("expected wheel media width 42, got %d", s.WheelMedia[role.Playfield].Width)
	}
	if got := field.Get(s); got != "42" {
		t.Fatalf("Get after Set = %q, want %q", got, "42")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := DefaultSettings()
	c := s.Clone()

	c.Media[role.Playfield] = RoleMedia{Width: 999}
	c.WheelMedia[role.Playfield] = RoleMedia{Width: 999}
	c.HealthyExitWhitelist[0] = -1

	if s.Media[role.Playfield].Width == 999 {
		t.Fatalf("expected Media clone to be independent of the original")
	}
	if s.WheelMedia[role.Playfield].Width == 999 {
		t.Fatalf("expected WheelMedia clone to be independent of the original")
	}
	if s.HealthyExitWhitelist[0] == -1 {
		t.Fatalf("expected HealthyExitWhitelist clone to be independent of the original")
	}
}

func TestClampRejectsBadRotation(t *testing.T) {
	s := DefaultSettings()
	m := s.Media[role.Playfield]
	m.Rotation = 45
	s.Media[role.Playfield] = m

	s.Clamp()

	if got := s.Media[role.Playfield].Rotation; got != 0 {
		t.Fatalf("expected invalid rotation reset to 0, got %d", got)
	}
}

func TestClampBoundsDPIScaleAndVolume(t *testing.T) {
	s := DefaultSettings()
	s.DPIScale = 10
	s.MasterVol = 500

	s.Clamp()

	if s.DPIScale != 3.0 {
		t.Fatalf("expected dpi_scale clamped to 3.0, got %v", s.DPIScale)
	}
	if s.MasterVol != 100 {
		t.Fatalf("expected master_vol clamped to 100, got %v", s.MasterVol)
	}
}

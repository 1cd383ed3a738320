package assets

import (
	"testing"

	"asapcabinetfe/internal/role"
	"asapcabinetfe/internal/table"
)

func TestGeneratedArtKeyIsStableAndRoleScoped(t *testing.T) {
	a := GeneratedArtKey(role.Playfield, 800, 600)
	b := GeneratedArtKey(role.Playfield, 800, 600)
	if a != b {
		t.Fatalf("expected deterministic key, got %q and %q", a, b)
	}
	if c := GeneratedArtKey(role.Backglass, 800, 600); c == a {
		t.Fatalf("expected different roles to produce different keys")
	}
	if c := GeneratedArtKey(role.Playfield, 1024, 768); c == a {
		t.Fatalf("expected different dimensions to produce different keys")
	}
}

func TestRoleTextFallsBackToTitle(t *testing.T) {
	rec := &table.Record{Title: "Medieval Madness"}

	if got := roleText(role.DMD, rec); got != "Medieval Madness" {
		t.Fatalf("expected DMD to fall back to title when manufacturer is empty, got %q", got)
	}
	if got := roleText(role.Topper, rec); got != "Medieval Madness" {
		t.Fatalf("expected Topper to fall back to title when year is empty, got %q", got)
	}
	if got := roleText(role.Backglass, rec); got != "Medieval Madness" {
		t.Fatalf("expected Backglass to always show the title, got %q", got)
	}
	if got := roleText(role.Playfield, rec); got != "ASAPCabinetFE" {
		t.Fatalf("expected Playfield to show the fixed brand string, got %q", got)
	}
}

func TestRoleTextPrefersMetadataWhenPresent(t *testing.T) {
	rec := &table.Record{Title: "Medieval Madness", Manufacturer: "Williams", Year: "1997"}

	if got := roleText(role.DMD, rec); got != "Williams" {
		t.Fatalf("expected DMD to prefer manufacturer, got %q", got)
	}
	if got := roleText(role.Topper, rec); got != "1997" {
		t.Fatalf("expected Topper to prefer year, got %q", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestServiceLoadWritesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	svc := New(dir, nil)

	settings, err := svc.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.FontSize != DefaultSettings().FontSize {
		t.Fatalf("expected defaults to be used on first load")
	}
	if _, err := os.Stat(filepath.Join(dir, "settings.json")); err != nil {
		t.Fatalf("expected settings.json to be written: %v", err)
	}
}

func TestServiceSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	svc := New(dir, nil)

	settings, err := svc.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	settings.VPXTablesPath = "/tables"
	settings.FontSize = 36

	if _, err := svc.Save(settings); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := New(dir, nil).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.VPXTablesPath != "/tables" || reloaded.FontSize != 36 {
		t.Fatalf("expected saved values to survive a reload, got %+v", reloaded)
	}
}

func TestServiceSaveReportsReloadEffectsInDispatchOrder(t *testing.T) {
	dir := t.TempDir()
	svc := New(dir, nil)

	settings, err := svc.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	settings.FontSize = 99     // ReloadFont
	settings.ShowTitle = !settings.ShowTitle // ReloadAssets

	effects, err := svc.Save(settings)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	fontIdx, assetsIdx := -1, -1
	for i, e := range effects {
		switch e {
		case ReloadFont:
			fontIdx = i
		case ReloadAssets:
			assetsIdx = i
		}
	}
	if fontIdx == -1 || assetsIdx == -1 {
		t.Fatalf("expected both ReloadFont and ReloadAssets in %v", effects)
	}
	if fontIdx > assetsIdx {
		t.Fatalf("expected ReloadFont before ReloadAssets per DispatchOrder, got %v", effects)
	}
}

func TestServiceIsValidRejectsMissingTablesPath(t *testing.T) {
	dir := t.TempDir()
	svc := New(dir, nil)
	settings := DefaultSettings()
	settings.VPXTablesPath = filepath.Join(dir, "does-not-exist")
	settings.VPinballXPath = os.Args[0]

	if svc.IsValid(settings) {
		t.Fatalf("expected IsValid to reject a missing vpx_tables_path")
	}
}

func TestServiceIsValidRejectsEmptyTablesDir(t *testing.T) {
	dir := t.TempDir()
	tablesDir := filepath.Join(dir, "tables")
	if err := os.MkdirAll(tablesDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	svc := New(dir, nil)
	settings := DefaultSettings()
	settings.VPXTablesPath = tablesDir
	settings.VPinballXPath = os.Args[0]

	if svc.IsValid(settings) {
		t.Fatalf("expected IsValid to reject a vpx_tables_path with no .vpx files")
	}
}

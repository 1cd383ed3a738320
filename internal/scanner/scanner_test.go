package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"asapcabinetfe/internal/table"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}

func TestScanFindsVPXFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Medieval Madness.vpx"))
	writeFile(t, filepath.Join(dir, "sub", "Attack From Mars.VPX"))
	writeFile(t, filepath.Join(dir, "readme.txt"))

	tables, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d: %+v", len(tables), tables)
	}

	titles := map[string]bool{}
	for _, tbl := range tables {
		titles[tbl.Title] = true
	}
	if !titles["Medieval Madness"] || !titles["Attack From Mars"] {
		t.Fatalf("expected case-insensitive .vpx extension match and title without extension, got %+v", titles)
	}
}

func TestScanAsyncDeliversResult(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Table.vpx"))

	results, errs := ScanAsync(dir)
	select {
	case tables := <-results:
		if len(tables) != 1 {
			t.Fatalf("expected 1 table, got %d", len(tables))
		}
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for scan result")
	}
}

func TestStatsSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink := NewStatsSink(dir)

	rec := &table.Record{VPXFile: "/tables/mm.vpx", PlayCount: 3, PlayTimeLast: 120.5, PlayTimeTotal: 500}
	if err := sink.SaveStats(rec); err != nil {
		t.Fatalf("SaveStats: %v", err)
	}

	fresh := []*table.Record{{VPXFile: "/tables/mm.vpx"}, {VPXFile: "/tables/unknown.vpx"}}
	sink.Hydrate(fresh)

	if fresh[0].PlayCount != 3 || fresh[0].PlayTimeLast != 120.5 || fresh[0].PlayTimeTotal != 500 {
		t.Fatalf("expected hydrated stats, got %+v", fresh[0])
	}
	if fresh[1].PlayCount != 0 {
		t.Fatalf("expected untouched record for unknown vpx file, got %+v", fresh[1])
	}
}

func TestStatsSinkSaveStatsIsAtomic(t *testing.T) {
	dir := t.TempDir()
	sink := NewStatsSink(dir)

	for i := 0; i < 3; i++ {
		rec := &table.Record{VPXFile: "/tables/mm.vpx", PlayCount: uint64(i)}
		if err := sink.SaveStats(rec); err != nil {
			t.Fatalf("SaveStats iteration %d: %v", i, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "table_stats.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be renamed away, stat err: %v", err)
	}
}

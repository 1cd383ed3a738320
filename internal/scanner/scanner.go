// Package scanner stands in for the out-of-scope table scanner (§1):
// "Table discovery/scanning and the optional VPSDB catalog network
// fetch" are explicitly not specified. This package only fulfils the
// concurrency contract §5 assigns to it — walk vpx_tables_path into a
// slice of table.Record on a background goroutine and signal
// completion — plus a JSON-file StatsSink so C9 has somewhere to
// persist play_count/is_broken (§6 "Table records ... updated via the
// table-callbacks sink").
package scanner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"asapcabinetfe/internal/table"
)

// Scan walks dir for .vpx files and returns one bare Record per file,
// titled with the file's base name minus its extension (case unchanged). Media path discovery and VPSDB
// enrichment are the out-of-scope scanner's job in the original system;
// here each Record starts with only vpx_file/title populated.
func Scan(dir string) ([]*table.Record, error) {
	var out []*table.Record
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".vpx") {
			return nil
		}
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = append(out, &table.Record{VPXFile: path, Title: title})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ScanAsync runs Scan on a background goroutine (§5's scanner thread)
// and reports the result over a pair of channels instead of an atomic
// flag + condvar, one and only one of which ever receives.
func ScanAsync(dir string) (<-chan []*table.Record, <-chan error) {
	results := make(chan []*table.Record, 1)
	errs := make(chan error, 1)
	go func() {
		tables, err := Scan(dir)
		if err != nil {
			errs <- err
			return
		}
		results <- tables
	}()
	return results, errs
}

// StatsSink persists play_count/play_time/is_broken to a single JSON
// file keyed by vpx_file, satisfying table.StatsSink (§6).
type StatsSink struct {
	mu   sync.Mutex
	path string
}

type statsRecord struct {
	IsBroken      bool    `json:"is_broken"`
	PlayCount     uint64  `json:"play_count"`
	PlayTimeLast  float32 `json:"play_time_last"`
	PlayTimeTotal float32 `json:"play_time_total"`
}

// NewStatsSink opens (or prepares to create) the stats file at
// filepath.Join(dataDir, "table_stats.json").
func NewStatsSink(dataDir string) *StatsSink {
	return &StatsSink{path: filepath.Join(dataDir, "table_stats.json")}
}

// SaveStats writes r's stats fields into the sink's JSON document,
// keyed by its vpx_file path, via tmp+rename (matching C8's save()).
func (s *StatsSink) SaveStats(r *table.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]statsRecord{}
	if raw, err := os.ReadFile(s.path); err == nil {
		_ = json.Unmarshal(raw, &doc)
	}
	doc[r.VPXFile] = statsRecord{
		IsBroken:      r.IsBroken,
		PlayCount:     r.PlayCount,
		PlayTimeLast:  r.PlayTimeLast,
		PlayTimeTotal: r.PlayTimeTotal,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Hydrate applies any previously persisted stats onto freshly scanned
// records, so a rescan does not lose play history.
func (s *StatsSink) Hydrate(tables []*table.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	doc := map[string]statsRecord{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return
	}
	for _, t := range tables {
		if rec, ok := doc[t.VPXFile]; ok {
			t.IsBroken = rec.IsBroken
			t.PlayCount = rec.PlayCount
			t.PlayTimeLast = rec.PlayTimeLast
			t.PlayTimeTotal = rec.PlayTimeTotal
		}
	}
}

var _ table.StatsSink = (*StatsSink)(nil)

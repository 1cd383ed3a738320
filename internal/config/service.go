package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"asapcabinetfe/internal/diag"
)

// Service owns the persisted Settings document (§4.8), grounded on the
// bnema-dumber config.Manager: a viper.Viper instance for change-watching,
// a baseline copy for diffing on save, and an fsnotify-backed watch for
// external edits. Loading and env overrides go through fieldTable/
// os.LookupEnv directly (see Load) rather than viper's own decoding, since
// fieldTable already owns the name<->field mapping Save needs for diffing.
type Service struct {
	v        *viper.Viper
	dataDir  string
	baseline *Settings
	log      *diag.Logger
}

// New creates a Service rooted at dataDir (the directory that holds
// settings.json).
func New(dataDir string, logger *diag.Logger) *Service {
	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("json")
	v.AddConfigPath(dataDir)

	return &Service{v: v, dataDir: dataDir, log: logger}
}

func (s *Service) settingsPath() string {
	return filepath.Join(s.dataDir, "settings.json")
}

// Load reads settings.json, falling back to defaults (which it then
// persists) if the file is absent (§4.8 load()).
func (s *Service) Load() (*Settings, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("config: create data dir: %w", err)
	}

	defaults := DefaultSettings()

	raw, err := os.ReadFile(s.settingsPath())
	if os.IsNotExist(err) {
		s.baseline = defaults.Clone()
		if err := s.writeAtomic(defaults); err != nil {
			return nil, fmt.Errorf("config: write defaults: %w", err)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read settings.json: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parse settings.json: %w", err)
	}

	settings := defaults.Clone()
	for _, f := range fieldTable {
		val, ok := doc[f.Name]
		if !ok {
			continue
		}
		str := stringify(val)
		if env, ok := os.LookupEnv("ASAPCAB_" + strings.ToUpper(f.Name)); ok {
			str = env
		}
		if err := f.Set(settings, str); err != nil {
			s.logf("field %q: %v (keeping default)", f.Name, err)
		}
	}

	settings.Clamp()
	settings.ApplyDPIPostProcessing()

	known := make(map[string]bool, len(fieldTable))
	for _, f := range fieldTable {
		known[f.Name] = true
	}
	for k := range doc {
		if !known[k] && !strings.HasPrefix(k, "_") {
			s.logf("unknown settings key %q preserved but not applied", k)
		}
	}

	s.baseline = settings.Clone()
	return settings, nil
}

// Save computes the reload-effect set for the diff between the current
// baseline and next, writes next atomically, and advances the baseline.
func (s *Service) Save(next *Settings) ([]ReloadType, error) {
	next.Clamp()

	effects := map[ReloadType]bool{}
	if s.baseline != nil {
		for _, f := range fieldTable {
			if f.Get(s.baseline) != f.Get(next) {
				effects[f.Reload] = true
			}
		}
	}

	if err := s.writeAtomic(next); err != nil {
		return nil, fmt.Errorf("config: save: %w", err)
	}
	s.baseline = next.Clone()

	var ordered []ReloadType
	for _, rt := range DispatchOrder {
		if effects[rt] {
			ordered = append(ordered, rt)
		}
	}
	return ordered, nil
}

// writeAtomic marshals settings to JSON and writes via tmp+rename so a
// crash mid-write never corrupts the live document (§4.8 save()).
func (s *Service) writeAtomic(settings *Settings) error {
	doc := make(map[string]string, len(fieldTable))
	for _, f := range fieldTable {
		doc[f.Name] = f.Get(settings)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.settingsPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.settingsPath())
}

// IsValid implements §4.8's is_valid(): vpx_tables_path must be a
// directory containing at least one .vpx (recursively), and the player
// path must exist and be executable.
func (s *Service) IsValid(settings *Settings) bool {
	info, err := os.Stat(settings.VPXTablesPath)
	if err != nil || !info.IsDir() {
		return false
	}
	found := false
	_ = filepath.WalkDir(settings.VPXTablesPath, func(path string, d os.DirEntry, err error) error {
		if err != nil || found {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".vpx") {
			found = true
		}
		return nil
	})
	if !found {
		return false
	}

	playerInfo, err := os.Stat(settings.VPinballXPath)
	if err != nil || playerInfo.IsDir() {
		return false
	}
	if _, err := exec.LookPath(settings.VPinballXPath); err != nil {
		// exec.LookPath searches PATH for a bare name (and checks a path
		// with a separator directly); when it fails, fall back to the
		// executable bit of the file os.Stat found above.
		return playerInfo.Mode()&0o111 != 0
	}
	return true
}

// Watch starts an fsnotify watch on settings.json so external edits
// (e.g. a hand-edited file) are logged; the Service does not auto-apply
// them mid-session, matching §5's "all cache mutations happen on the
// main thread" ordering guarantee.
func (s *Service) Watch(onChange func()) error {
	s.v.WatchConfig()
	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.logf("settings.json changed on disk (%s)", e.Op)
		if onChange != nil {
			onChange()
		}
	})
	return nil
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.log == nil {
		return
	}
	s.log.Logf(diag.ComponentConfig, diag.LevelWarning, format, args...)
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/null-create/logger"

	"github.com/null-create/toolwatch/pkg/toolwatch"
)

const (
	baselinesFile = "baselines.json"
	alertsFile    = "alerts.json"
)

// Store persists baselines and alerts as JSON files in a state
// directory. Baselines are rewritten in full on every save; alerts only
// ever grow — the file is an append-only audit log the core never
// prunes.
type Store struct {
	dir string
	log *logger.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		log: logger.NewLogger("STORE", uuid.NewString()),
	}
}

// DefaultDir returns the default state directory (~/.toolwatch).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".toolwatch"
	}
	return filepath.Join(home, ".toolwatch")
}

// Dir returns the state directory backing this store.
func (s *Store) Dir() string { return s.dir }

// LoadBaselines reads all persisted baselines. A missing file is an
// empty result, not an error.
func (s *Store) LoadBaselines() ([]toolwatch.Fingerprint, error) {
	var baselines []toolwatch.Fingerprint
	if err := s.readJSON(baselinesFile, &baselines); err != nil {
		return nil, err
	}
	return baselines, nil
}

// SaveBaselines rewrites the baselines file with the given snapshot.
func (s *Store) SaveBaselines(baselines []toolwatch.Fingerprint) error {
	return s.writeJSON(baselinesFile, baselines)
}

// LoadAlerts reads the full persisted alert history in detection order.
func (s *Store) LoadAlerts() ([]toolwatch.Alert, error) {
	var alerts []toolwatch.Alert
	if err := s.readJSON(alertsFile, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// AppendAlerts adds new alerts to the end of the persisted history.
func (s *Store) AppendAlerts(alerts []toolwatch.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	existing, err := s.LoadAlerts()
	if err != nil {
		return err
	}
	return s.writeJSON(alertsFile, append(existing, alerts...))
}

// LoadRegistry builds a WatchRegistry from the persisted baselines.
// Alert history stays on disk: a freshly loaded registry accumulates
// only the alerts of the current run.
func (s *Store) LoadRegistry() (*toolwatch.WatchRegistry, error) {
	baselines, err := s.LoadBaselines()
	if err != nil {
		return nil, err
	}
	reg := toolwatch.NewWatchRegistry()
	for _, fp := range baselines {
		reg.AddBaseline(fp)
	}
	return reg, nil
}

// SaveRegistry persists the registry's baseline snapshot and appends
// any alerts it accumulated since it was loaded.
func (s *Store) SaveRegistry(reg *toolwatch.WatchRegistry) error {
	if err := s.SaveBaselines(reg.GetAllBaselines()); err != nil {
		return err
	}
	return s.AppendAlerts(reg.GetAlerts())
}

func (s *Store) readJSON(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	s.log.Info("wrote %s", path)
	return nil
}

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/batchgen/internal/plan"
)

const stateFileName = "current-state.json"

// StatePath returns the state file location inside dir.
func StatePath(dir string) string {
	return filepath.Join(dir, stateFileName)
}

// SaveState persists the session state as indented JSON.
func SaveState(s *SessionState, dir string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// Replace the previous snapshot atomically.
	tmp := StatePath(dir) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, StatePath(dir)); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// LoadState reads and parses the session state from the state directory.
func LoadState(dir string) (*SessionState, error) {
	data, err := os.ReadFile(StatePath(dir))
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s SessionState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}

	return &s, nil
}

// ClearState removes the state file. A missing file is not an error.
func ClearState(dir string) error {
	if err := os.Remove(StatePath(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// ValidateState checks that the state is consistent:
// - The schema version is supported
// - The plan file, when one was used, still exists
// - The plan file hash matches (file hasn't changed)
func ValidateState(s *SessionState, planFile string) error {
	if s.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported state schema version %d", s.SchemaVersion)
	}
	if planFile == "" {
		planFile = s.PlanFile
	}
	if planFile == "" {
		return nil
	}

	if _, err := os.Stat(planFile); err != nil {
		return fmt.Errorf("plan file not found: %w", err)
	}

	currentHash, err := plan.HashFile(planFile)
	if err != nil {
		return fmt.Errorf("hash plan file: %w", err)
	}

	if s.PlanFileHash != "" && s.PlanFileHash != currentHash {
		return fmt.Errorf("plan file changed: expected hash %s, got %s", s.PlanFileHash, currentHash)
	}

	return nil
}

// InitStateDir creates the state directory if it doesn't exist.
func InitStateDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

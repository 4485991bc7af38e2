package state

import "github.com/CodexForgeBR/batchgen/internal/generation"

// SchemaVersion is the current layout of current-state.json.
const SchemaVersion = 1

// SessionState represents the persisted state of a batchgen session.
// Written to .batchgen/current-state.json.
type SessionState struct {
	SchemaVersion int    `json:"schema_version"`
	SessionID     string `json:"session_id"`
	StartedAt     string `json:"started_at"`
	LastUpdated   string `json:"last_updated"`
	Status        string `json:"status"`
	Label         string `json:"label,omitempty"`
	PlanFile      string `json:"plan_file,omitempty"`
	PlanFileHash  string `json:"plan_file_hash,omitempty"`
	OutputDir     string `json:"output_dir"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`

	Continuation generation.ContinuationState `json:"continuation"`
}

// Status constants
const (
	StatusInProgress  = "IN_PROGRESS"
	StatusInterrupted = "INTERRUPTED"
)

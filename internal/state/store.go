package state

import (
	"time"

	"github.com/CodexForgeBR/batchgen/internal/generation"
)

// Store snapshots a running session into a state directory. It satisfies
// generation.Snapshotter.
type Store struct {
	Dir string

	// Base carries the fields that do not change between snapshots.
	Base SessionState

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewStore returns a Store for dir whose snapshots start from base.
func NewStore(dir string, base SessionState) *Store {
	return &Store{Dir: dir, Base: base}
}

// Save writes st as an IN_PROGRESS snapshot.
func (s *Store) Save(st generation.ContinuationState) error {
	return s.write(st, StatusInProgress)
}

// MarkInterrupted writes st as an INTERRUPTED snapshot.
func (s *Store) MarkInterrupted(st generation.ContinuationState) error {
	return s.write(st, StatusInterrupted)
}

// Clear removes the snapshot.
func (s *Store) Clear() error {
	return ClearState(s.Dir)
}

func (s *Store) write(st generation.ContinuationState, status string) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := now().Format(time.RFC3339)

	if s.Base.StartedAt == "" {
		s.Base.StartedAt = ts
	}

	snap := s.Base
	snap.SchemaVersion = SchemaVersion
	snap.SessionID = st.SessionID
	snap.Status = status
	snap.LastUpdated = ts
	if snap.Label == "" {
		snap.Label = st.Label
	}
	snap.Continuation = st
	return SaveState(&snap, s.Dir)
}

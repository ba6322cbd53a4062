// Package store holds committed label placements keyed by element ID.
//
// The store is deliberately passive. It never recomputes anything: a write
// happens only when the orchestrator commits a layout pass or records a user
// move, and a read returns exactly what was last written. Mode tracks who
// owns a position (the engine or the user) so layout passes know which
// labels they may move.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/svanholm/plotpin/pkg/errors"
	"github.com/svanholm/plotpin/pkg/geom"
	"github.com/svanholm/plotpin/pkg/observability"
)

// Placement modes.
const (
	// ModeAuto marks a position computed by the engine. Auto labels are
	// re-placed whenever their surroundings change.
	ModeAuto = "auto"

	// ModeManual marks a position chosen by the user. Manual labels are
	// never moved by the engine, only by another user action or a reset.
	ModeManual = "manual"
)

// Label is one committed placement record.
type Label struct {
	// Pos is the label box center.
	Pos geom.Point `json:"pos"`

	// Mode is ModeAuto or ModeManual.
	Mode string `json:"mode"`

	// Tag names the direction the placer chose ("upper-right", "far-left",
	// ...). Empty for manual placements.
	Tag string `json:"tag,omitempty"`

	// Resolved is false when the placement fell back to a colliding
	// position because no candidate was free.
	Resolved bool `json:"resolved"`

	// Signature is the context hash (obstacles + bounds + anchor) the
	// position was computed against. A changed signature means the
	// placement is stale and the next layout pass recomputes it. Manual
	// labels keep their position regardless.
	Signature string `json:"signature,omitempty"`
}

// Store is a concurrency-safe map of element ID to placement record.
type Store struct {
	mu     sync.RWMutex
	labels map[string]Label
}

// New creates an empty store.
func New() *Store {
	return &Store{labels: make(map[string]Label)}
}

// Get returns the record for id, if present.
func (s *Store) Get(id string) (Label, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.labels[id]
	return l, ok
}

// Set writes the record for id, replacing any previous one.
func (s *Store) Set(ctx context.Context, id string, l Label) {
	s.mu.Lock()
	s.labels[id] = l
	s.mu.Unlock()

	observability.Store().OnLabelSet(ctx, id, l.Mode)
}

// Commit writes a batch of records under a single lock, so readers never
// observe a half-applied layout pass.
func (s *Store) Commit(ctx context.Context, updates map[string]Label) {
	s.mu.Lock()
	for id, l := range updates {
		s.labels[id] = l
	}
	s.mu.Unlock()

	hooks := observability.Store()
	for _, id := range sortedKeys(updates) {
		hooks.OnLabelSet(ctx, id, updates[id].Mode)
	}
}

// ResetToAuto clears a manual override: the record flips back to ModeAuto
// with an emptied signature, so the next layout pass recomputes the
// position. The stale position stays readable until then.
func (s *Store) ResetToAuto(ctx context.Context, id string) error {
	s.mu.Lock()
	l, ok := s.labels[id]
	if !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeLabelNotFound, "no placement recorded for %q", id)
	}
	l.Mode = ModeAuto
	l.Signature = ""
	s.labels[id] = l
	s.mu.Unlock()

	observability.Store().OnLabelSet(ctx, id, ModeAuto)
	return nil
}

// Remove deletes the record for id. Removing an absent id is an error so
// callers catch typos in element IDs.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.labels[id]; !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeLabelNotFound, "no placement recorded for %q", id)
	}
	delete(s.labels, id)
	s.mu.Unlock()

	observability.Store().OnLabelRemoved(ctx, id)
	return nil
}

// Snapshot returns a copy of every record. Mutating the returned map does
// not affect the store.
func (s *Store) Snapshot() map[string]Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Label, len(s.labels))
	for id, l := range s.labels {
		out[id] = l
	}
	return out
}

// Restore replaces the store contents wholesale, used when loading a saved
// project.
func (s *Store) Restore(labels map[string]Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = make(map[string]Label, len(labels))
	for id, l := range labels {
		s.labels[id] = l
	}
}

// IDs returns the stored element IDs in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.labels)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.labels)
}

func sortedKeys(m map[string]Label) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

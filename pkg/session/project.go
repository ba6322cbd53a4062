// Package session persists a working project: the scene snapshot together
// with the committed label placements, manual overrides included.
//
// Saving after a layout run and loading before the next one makes CLI runs
// incremental: unchanged anchors keep their committed positions and manual
// pins survive across invocations.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/svanholm/plotpin/pkg/scene"
	"github.com/svanholm/plotpin/pkg/store"
)

// FormatVersion is bumped when the project file layout changes.
const FormatVersion = 1

// Project is the on-disk unit of work.
type Project struct {
	Version int                    `json:"version"`
	Name    string                 `json:"name,omitempty"`
	SavedAt time.Time              `json:"saved_at"`
	Scene   scene.Scene            `json:"scene"`
	Labels  map[string]store.Label `json:"labels,omitempty"`
}

// Snapshot captures the current scene and store into a saveable project.
func Snapshot(name string, sc scene.Scene, st *store.Store) *Project {
	return &Project{
		Version: FormatVersion,
		Name:    name,
		SavedAt: time.Now().UTC(),
		Scene:   sc,
		Labels:  st.Snapshot(),
	}
}

// Apply loads the project's placements into the store, replacing whatever
// the store held.
func (p *Project) Apply(st *store.Store) {
	st.Restore(p.Labels)
}

// Save writes the project as JSON. The write goes through a temp file and a
// rename so a crash mid-write never leaves a truncated project behind.
func Save(path string, p *Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".plotpin-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace project file: %w", err)
	}
	return nil
}

// Load reads a project file. A missing file is returned as (nil, nil) so
// callers can treat it as a fresh start.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	if p.Version > FormatVersion {
		return nil, fmt.Errorf("project %s uses format version %d, this build supports up to %d",
			path, p.Version, FormatVersion)
	}
	p.Scene.Normalize()
	return &p, nil
}

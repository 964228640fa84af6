package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for resuming a run.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int   `json:"tick"`

	// RNG is the marshalled PCG state, so a resumed run draws the same
	// numbers the original would have.
	RNG []byte `json:"rng,omitempty"`

	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// Terrain holds one string per row with '~', '#' or ' '.
	Terrain []string `json:"terrain"`

	Species  []SpeciesState `json:"species"`
	Entities []EntityState  `json:"entities"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// SpeciesState is one row of the species table.
type SpeciesState struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Diet      string `json:"diet,omitempty"`
	MaxEnergy int    `json:"max_energy"`
	Regrowth  int    `json:"regrowth,omitempty"`
}

// EntityState holds one entity's complete state.
type EntityState struct {
	Species string `json:"species"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Energy  int    `json:"energy"`

	// Plants only
	Timer int  `json:"timer,omitempty"`
	Grown bool `json:"grown,omitempty"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}

// WriteMapFile writes rows in map-file form: one line per row, joined by
// newlines with no trailing newline.
func WriteMapFile(path string, rows []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create map dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0644); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}

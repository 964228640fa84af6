package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Seed:    42,
		Tick:    120,
		RNG:     []byte{1, 2, 3},
		Rows:    2,
		Cols:    3,
		Terrain: []string{"~  ", "  #"},
		Species: []SpeciesState{
			{ID: "P", Kind: "plant", MaxEnergy: 10, Regrowth: 4},
			{ID: "H", Kind: "herbivore", Diet: "P", MaxEnergy: 20},
		},
		Entities: []EntityState{
			{Species: "P", X: 1, Y: 0, Energy: 10, Timer: 2},
			{Species: "H", X: 1, Y: 0, Energy: 13},
		},
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()
	snapshot := testSnapshot()

	path, err := SaveSnapshot(snapshot, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_120.json" {
		t.Errorf("path = %s, want snapshot_120.json", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !reflect.DeepEqual(snapshot, loaded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, snapshot)
	}
}

func TestSnapshotSave_BookmarkName(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Bookmark = &Bookmark{Type: BookmarkPopulationCrash, Tick: 120, Description: "crash"}

	path, err := SaveSnapshot(snapshot, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_120_population_crash.json") {
		t.Errorf("path = %s", path)
	}
}

func TestLoadSnapshot_WrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestWriteMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "map.txt")
	if err := WriteMapFile(path, []string{"P H", "~~#"}); err != nil {
		t.Fatalf("WriteMapFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "P H\n~~#" {
		t.Errorf("content = %q", data)
	}
}

func TestSlotStore_Degraded(t *testing.T) {
	s := NewSlotStore(nil)
	if s.Available() {
		t.Fatal("nil manager should be unavailable")
	}
	if err := s.Save("quick", testSnapshot()); !errors.Is(err, ErrNoStorage) {
		t.Errorf("Save err = %v, want ErrNoStorage", err)
	}
	if _, err := s.Load("quick"); !errors.Is(err, ErrNoStorage) {
		t.Errorf("Load err = %v, want ErrNoStorage", err)
	}
	names, err := s.List()
	if err != nil || len(names) != 0 {
		t.Errorf("List = %v, %v", names, err)
	}
}

func openTestSlots(t *testing.T) *SlotStore {
	t.Helper()
	appName := fmt.Sprintf("ecosim_test_%d", time.Now().UnixNano())
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	return NewSlotStore(m)
}

func TestSlotStore_RoundTrip(t *testing.T) {
	s := openTestSlots(t)
	snapshot := testSnapshot()

	if err := s.Save("beta", snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save("alpha", snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Overwriting keeps a single index entry
	if err := s.Save("beta", snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "beta"}) {
		t.Errorf("List = %v, want [alpha beta]", names)
	}

	loaded, err := s.Load("beta")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Terrain, snapshot.Terrain) || !reflect.DeepEqual(loaded.Entities, snapshot.Entities) {
		t.Errorf("loaded %+v, want %+v", loaded, snapshot)
	}

	if _, err := s.Load("missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Load(missing) err = %v, want ErrSlotNotFound", err)
	}
}

func TestSlotStore_InvalidNames(t *testing.T) {
	s := openTestSlots(t)
	for _, name := range []string{"", "index", "../etc", "has space"} {
		if err := s.Save(name, testSnapshot()); !errors.Is(err, ErrSlotName) {
			t.Errorf("Save(%q) err = %v, want ErrSlotName", name, err)
		}
	}
}

package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Save slot errors.
var (
	ErrSlotNotFound = errors.New("save slot not found")
	ErrSlotName     = errors.New("invalid save slot name")
	ErrNoStorage    = errors.New("save slots unavailable")
)

const (
	slotObject    = "slots"
	slotIndexProp = "index"
)

var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validSlotName(name string) bool {
	return name != slotIndexProp && slotNamePattern.MatchString(name)
}

// SlotStore keeps named snapshots in the platform data directory.
// A store without a gdata manager runs in degraded mode: Save and Load fail
// with ErrNoStorage and List is empty.
type SlotStore struct {
	m *gdata.Manager
}

// OpenSlotStore opens the data directory for appName. When the directory
// cannot be opened the returned store is degraded and err explains why.
func OpenSlotStore(appName string) (*SlotStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return &SlotStore{}, fmt.Errorf("open save slots: %w", err)
	}
	return &SlotStore{m: m}, nil
}

// NewSlotStore wraps an existing manager. m may be nil.
func NewSlotStore(m *gdata.Manager) *SlotStore {
	return &SlotStore{m: m}
}

// Available reports whether slots can be persisted.
func (s *SlotStore) Available() bool {
	return s != nil && s.m != nil
}

// Save stores snapshot under name and records it in the slot index.
func (s *SlotStore) Save(name string, snapshot *Snapshot) error {
	if !s.Available() {
		return ErrNoStorage
	}
	if !validSlotName(name) {
		return fmt.Errorf("%q: %w", name, ErrSlotName)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal slot %q: %w", name, err)
	}
	if err := s.m.SaveObjectProp(slotObject, name, data); err != nil {
		return fmt.Errorf("save slot %q: %w", name, err)
	}

	names, err := s.List()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		names = append(names, name)
		slices.Sort(names)
	}
	index, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("marshal slot index: %w", err)
	}
	if err := s.m.SaveObjectProp(slotObject, slotIndexProp, index); err != nil {
		return fmt.Errorf("save slot index: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under name.
func (s *SlotStore) Load(name string) (*Snapshot, error) {
	if !s.Available() {
		return nil, ErrNoStorage
	}
	if !validSlotName(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrSlotName)
	}
	if !s.m.ObjectPropExists(slotObject, name) {
		return nil, fmt.Errorf("%q: %w", name, ErrSlotNotFound)
	}
	data, err := s.m.LoadObjectProp(slotObject, name)
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", name, err)
	}
	return decodeSnapshot(data)
}

// List returns the saved slot names in sorted order.
func (s *SlotStore) List() ([]string, error) {
	if !s.Available() || !s.m.ObjectPropExists(slotObject, slotIndexProp) {
		return nil, nil
	}
	data, err := s.m.LoadObjectProp(slotObject, slotIndexProp)
	if err != nil {
		return nil, fmt.Errorf("load slot index: %w", err)
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("unmarshal slot index: %w", err)
	}
	return names, nil
}

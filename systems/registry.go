package systems

import "github.com/pthm-cable/ecosim/components"

// SystemInfo describes a simulation system for UI display and perf tracking.
type SystemInfo struct {
	ID          string          // Internal identifier (used for perf tracking)
	Name        string          // Display name
	Description string          // What this system does
	Category    string          // "phase" for tick phases, otherwise a grouping
	Kind        components.Kind // Entity kind ticked by a phase
}

// SystemRegistry holds metadata about all systems.
// Phases are kept in registration order, which is the tick order.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
func (r *SystemRegistry) registerDefaults() {
	// Tick phases, in order
	r.Register(SystemInfo{ID: "plants", Name: "Plants", Description: "Advances plant regrowth", Category: "phase", Kind: components.KindPlant})
	r.Register(SystemInfo{ID: "herbivores", Name: "Herbivores", Description: "Eat, mate or move each herbivore", Category: "phase", Kind: components.KindHerbivore})
	r.Register(SystemInfo{ID: "omnivores", Name: "Omnivores", Description: "Eat, mate or move each omnivore", Category: "phase", Kind: components.KindOmnivore})

	// Cleanup
	r.Register(SystemInfo{ID: "cleanup", Name: "Cleanup", Description: "Removes starved animals", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Flushes window statistics", Category: "io"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Phases returns the tick phases in execution order.
func (r *SystemRegistry) Phases() []SystemInfo {
	return r.ByCategory("phase")
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}

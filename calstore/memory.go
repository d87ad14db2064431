package calstore

import (
	"context"
	"sort"
	"sync"

	"github.com/spoolworks/labelpress/calibration"
)

// Memory holds overrides in a map. It backs tests and ad-hoc preview
// sessions where persisting a correction would be wrong.
type Memory struct {
	mu        sync.RWMutex
	overrides map[pairKey]calibration.Override
}

type pairKey struct {
	station string
	profile string
}

var _ calibration.Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{overrides: make(map[pairKey]calibration.Override)}
}

// Put upserts one override.
func (m *Memory) Put(_ context.Context, o calibration.Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[pairKey{o.StationID, o.ProfileID}] = o
	return nil
}

// Get looks up the override for one pair.
func (m *Memory) Get(_ context.Context, stationID, profileID string) (calibration.Override, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.overrides[pairKey{stationID, profileID}]
	return o, ok, nil
}

// List returns every override ordered by station then profile.
func (m *Memory) List(_ context.Context) ([]calibration.Override, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]calibration.Override, 0, len(m.overrides))
	for _, o := range m.overrides {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StationID != out[j].StationID {
			return out[i].StationID < out[j].StationID
		}
		return out[i].ProfileID < out[j].ProfileID
	})
	return out, nil
}

// Delete removes the override for one pair.
func (m *Memory) Delete(_ context.Context, stationID, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, pairKey{stationID, profileID})
	return nil
}

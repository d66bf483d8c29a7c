package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tinytrack/internal/model"
)

// MemoryStore keeps profiles in process memory. Records are stored as
// marshaled JSON so callers never share a live pointer with the store;
// a Get always yields an independent copy of the latest written state.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*model.Profile, error) {
	m.mu.RLock()
	doc, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return unmarshalProfile(doc)
}

func (m *MemoryStore) FindByDelegate(_ context.Context, id string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.docs {
		p, err := unmarshalProfile(doc)
		if err != nil {
			continue
		}
		if p.DelegateID != "" && p.DelegateID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Upsert(_ context.Context, p *model.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.ID, err)
	}
	m.mu.Lock()
	m.docs[p.ID] = doc
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.docs, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func unmarshalProfile(doc []byte) (*model.Profile, error) {
	var p model.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

package attachment

import (
	"context"
	"fmt"
	"sync"
)

type storeKey struct {
	uhid  int64
	group Group
}

// MemoryRepository is a thread-safe, in-memory Repository for development
// and tests. A single mutex serializes the check-then-append of every
// store, which is the critical-section answer to the identifier race.
type MemoryRepository struct {
	mu     sync.Mutex
	stores map[storeKey]*StoreDocument
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stores: make(map[storeKey]*StoreDocument)}
}

func (m *MemoryRepository) CreateStores(_ context.Context, uhid int64, name, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range Groups() {
		key := storeKey{uhid: uhid, group: g}
		if _, ok := m.stores[key]; ok {
			continue
		}
		doc := &StoreDocument{UHID: uhid, Name: name, Email: email,
			Categories: make(map[Category][]Record, len(Categories(g)))}
		for _, cat := range Categories(g) {
			doc.Categories[cat] = []Record{}
		}
		m.stores[key] = doc
	}
	return nil
}

func (m *MemoryRepository) GetStore(_ context.Context, uhid int64, group Group) (*StoreDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.stores[storeKey{uhid: uhid, group: group}]
	if !ok {
		return nil, ErrNotFound
	}
	out := &StoreDocument{UHID: doc.UHID, Name: doc.Name, Email: doc.Email,
		Categories: make(map[Category][]Record, len(doc.Categories))}
	for cat, recs := range doc.Categories {
		cp := make([]Record, len(recs))
		copy(cp, recs)
		out.Categories[cat] = cp
	}
	return out, nil
}

func (m *MemoryRepository) ListCategory(_ context.Context, uhid int64, category Category) ([]Record, error) {
	group, ok := GroupOf(category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.stores[storeKey{uhid: uhid, group: group}]
	if !ok {
		return []Record{}, nil
	}
	recs := doc.Categories[category]
	cp := make([]Record, len(recs))
	copy(cp, recs)
	return cp, nil
}

func (m *MemoryRepository) AppendRecord(_ context.Context, uhid int64, category Category, rec Record) error {
	group, ok := GroupOf(category)
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.stores[storeKey{uhid: uhid, group: group}]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range doc.Categories[category] {
		if existing.ID == rec.ID {
			return ErrDuplicateID
		}
	}
	doc.Categories[category] = append(doc.Categories[category], rec)
	return nil
}

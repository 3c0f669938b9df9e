package memory

import (
	"context"
	"fmt"
	"sync"

	"sonicpdf/internal/model"
	"sonicpdf/internal/repository"
)

// PDFMemory is an in-memory, process-lifetime implementation of repository.PDFRepository.
// The ordered slice keeps insertion order for List; the index map serves FindByID.
type PDFMemory struct {
	mu    sync.RWMutex
	items []model.PDF
	index map[string]int
	seq   int
}

var _ repository.PDFRepository = (*PDFMemory)(nil)

// NewPDFMemory returns a store preloaded with seed. The ID counter starts at len(seed), so the
// first reserved ID is pdf-{len(seed)+1}. Duplicate seed IDs are rejected.
func NewPDFMemory(seed []model.PDF) (*PDFMemory, error) {
	m := &PDFMemory{
		items: make([]model.PDF, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	for _, rec := range seed {
		if _, ok := m.index[rec.ID]; ok {
			return nil, fmt.Errorf("seed %q: %w", rec.ID, repository.ErrDuplicateID)
		}
		m.index[rec.ID] = len(m.items)
		m.items = append(m.items, rec)
	}
	m.seq = len(m.items)
	return m, nil
}

// List returns a copy of all records in insertion order.
func (m *PDFMemory) List(_ context.Context) ([]model.PDF, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PDF, len(m.items))
	copy(out, m.items)
	return out, nil
}

// FindByID returns a copy of the record so callers cannot mutate the store.
func (m *PDFMemory) FindByID(_ context.Context, id string) (*model.PDF, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec := m.items[i]
	return &rec, nil
}

// NextID reserves a fresh ID. IDs already present (e.g. a seed named pdf-3) are skipped.
func (m *PDFMemory) NextID(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		m.seq++
		id := fmt.Sprintf("pdf-%d", m.seq)
		if _, taken := m.index[id]; !taken {
			return id, nil
		}
	}
}

// Create appends rec and returns the stored copy.
func (m *PDFMemory) Create(_ context.Context, rec *model.PDF) (*model.PDF, error) {
	if rec == nil || rec.ID == "" {
		return nil, fmt.Errorf("create: id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[rec.ID]; ok {
		return nil, fmt.Errorf("create %q: %w", rec.ID, repository.ErrDuplicateID)
	}
	m.index[rec.ID] = len(m.items)
	m.items = append(m.items, *rec)
	out := *rec
	return &out, nil
}

// Len reports the number of stored records.
func (m *PDFMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

package storage

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

// MemoryWineAdapter keeps wines in a map. The RWMutex only protects the map
// itself; mutation ordering is the inventory service's job.
type MemoryWineAdapter struct {
	mu    sync.RWMutex
	wines map[string]domain.Wine
}

func NewMemoryWineAdapter() *MemoryWineAdapter {
	return &MemoryWineAdapter{wines: make(map[string]domain.Wine)}
}

func (m *MemoryWineAdapter) Save(ctx context.Context, wine domain.Wine) (domain.Wine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.wines[wine.ID]; ok {
		return domain.Wine{}, domain.ErrDuplicateID
	}
	m.wines[wine.ID] = wine
	return wine, nil
}

func (m *MemoryWineAdapter) FindByID(ctx context.Context, id string) (*domain.Wine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wine, ok := m.wines[id]
	if !ok {
		return nil, nil
	}
	return &wine, nil
}

func (m *MemoryWineAdapter) Update(ctx context.Context, wine domain.Wine) (domain.Wine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wines[wine.ID] = wine
	return wine, nil
}

func (m *MemoryWineAdapter) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.wines, id)
	return nil
}

func (m *MemoryWineAdapter) FindAll(ctx context.Context) ([]domain.Wine, error) {
	m.mu.RLock()
	out := make([]domain.Wine, 0, len(m.wines))
	for _, w := range m.wines {
		out = append(out, w)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Wine) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

type MemoryHistoryAdapter struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

func NewMemoryHistoryAdapter() *MemoryHistoryAdapter {
	return &MemoryHistoryAdapter{}
}

func (m *MemoryHistoryAdapter) Append(ctx context.Context, entry domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryHistoryAdapter) FindAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryHistoryAdapter) FindByFilter(ctx context.Context, filters ...domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.FilterHistories(m.entries, filters...), nil
}

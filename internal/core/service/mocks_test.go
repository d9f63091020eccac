package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rl1809/wine-inventory/internal/adapter/lock"
	"github.com/rl1809/wine-inventory/internal/adapter/storage"
	"github.com/rl1809/wine-inventory/internal/core/domain"
)

// Mock AlertSink
type mockAlertSink struct {
	mu       sync.Mutex
	messages []string
	err      error
	panicMsg string
}

func (m *mockAlertSink) SendAlert(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, message)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.err
}

func (m *mockAlertSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Mock Locker that is always held by someone else
type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	return nil, domain.ErrLockTimeout
}

// Mock HistoryRepository whose appends can be made to fail
type failingHistoryRepo struct {
	*storage.MemoryHistoryAdapter
	fail bool
	err  error
}

func (f *failingHistoryRepo) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryHistoryAdapter.Append(ctx, entry)
}

// Mock WineRepository whose updates can be made to fail
type failingWineRepo struct {
	*storage.MemoryWineAdapter
	failUpdate bool
}

func (f *failingWineRepo) Update(ctx context.Context, wine domain.Wine) (domain.Wine, error) {
	if f.failUpdate {
		return domain.Wine{}, errors.New("connection reset")
	}
	return f.MemoryWineAdapter.Update(ctx, wine)
}

func sequentialIDs(prefix string) IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type fixture struct {
	wines   *storage.MemoryWineAdapter
	history *storage.MemoryHistoryAdapter
	ledger  *HistoryLedger
	sink    *mockAlertSink
	svc     *InventoryService
}

func newFixture(threshold int) *fixture {
	f := &fixture{
		wines:   storage.NewMemoryWineAdapter(),
		history: storage.NewMemoryHistoryAdapter(),
		sink:    &mockAlertSink{},
	}
	f.ledger = NewHistoryLedger(f.history, WithIDGenerator(sequentialIDs("h")))
	alert := NewLowStockAlert(f.wines, f.sink, threshold, nil)
	f.svc = NewInventoryService(f.wines, f.ledger, lock.NewLocalLocker(), alert)
	return f
}

func wine(id string, quantity int) domain.Wine {
	return domain.Wine{ID: id, Name: "Wine " + id, CountryCode: "FR", Vintage: 2019, Quantity: quantity}
}

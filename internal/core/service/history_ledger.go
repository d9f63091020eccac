package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/port"
)

type (
	IDGenerator func() string
	Clock       func() time.Time
)

type HistoryLedger struct {
	repo  port.HistoryRepository
	newID IDGenerator
	now   Clock

	mu   sync.Mutex
	last time.Time
}

type LedgerOption func(*HistoryLedger)

// WithIDGenerator replaces uuid.NewString as the source of entry ids.
func WithIDGenerator(gen IDGenerator) LedgerOption {
	return func(l *HistoryLedger) {
		if gen != nil {
			l.newID = gen
		}
	}
}

func WithClock(clock Clock) LedgerOption {
	return func(l *HistoryLedger) {
		if clock != nil {
			l.now = clock
		}
	}
}

func NewHistoryLedger(repo port.HistoryRepository, opts ...LedgerOption) *HistoryLedger {
	l := &HistoryLedger{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogChange appends one entry. Timestamps never go backwards in insertion
// order even if the clock does.
func (l *HistoryLedger) LogChange(ctx context.Context, wineID string, historyType domain.HistoryType, quantityChanged int, modifiedBy string) (domain.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	if ts.Before(l.last) {
		ts = l.last
	}

	entry := domain.HistoryEntry{
		ID:              l.newID(),
		WineID:          wineID,
		Type:            historyType,
		QuantityChanged: quantityChanged,
		ModifiedBy:      modifiedBy,
		CreatedAt:       ts,
	}

	if err := l.repo.Append(ctx, entry); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("append history for wine %s: %w", wineID, err)
	}
	l.last = ts

	return entry, nil
}

func (l *HistoryLedger) GetAllHistories(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := l.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	return entries, nil
}

// GetHistoriesByFilter returns entries matching all filters; with no filters
// every entry is returned.
func (l *HistoryLedger) GetHistoriesByFilter(ctx context.Context, filters ...domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	if len(filters) == 0 {
		return l.GetAllHistories(ctx)
	}
	entries, err := l.repo.FindByFilter(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("filter histories: %w", err)
	}
	return entries, nil
}

package port

import (
	"context"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

// HistoryRepository is append-only.
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error

	// FindAll returns entries in insertion order
	FindAll(ctx context.Context) ([]domain.HistoryEntry, error)

	// FindByFilter returns entries matching every filter, in insertion order
	FindByFilter(ctx context.Context, filters ...domain.HistoryFilter) ([]domain.HistoryEntry, error)
}

package port

import (
	"context"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

type WineRepository interface {
	// Save inserts a new wine, returns domain.ErrDuplicateID if the id is taken
	Save(ctx context.Context, wine domain.Wine) (domain.Wine, error)

	// FindByID returns nil without error when the wine does not exist
	FindByID(ctx context.Context, id string) (*domain.Wine, error)

	// Update replaces the stored wine with the same id
	Update(ctx context.Context, wine domain.Wine) (domain.Wine, error)

	// Delete removes the wine, deleting a missing id is not an error
	Delete(ctx context.Context, id string) error

	// FindAll returns a snapshot of every wine ordered by id
	FindAll(ctx context.Context) ([]domain.Wine, error)
}

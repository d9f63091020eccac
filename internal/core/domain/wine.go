package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Wine struct {
	ID          string
	Name        string
	CountryCode string
	Vintage     int
	Price       decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields a wine must carry before it is registered.
func (w Wine) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidWine)
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidWine)
	}
	if len(w.CountryCode) != 2 {
		return fmt.Errorf("%w: country code %q must have 2 letters", ErrInvalidWine, w.CountryCode)
	}
	if w.Quantity < 0 {
		return fmt.Errorf("%w: quantity %d is negative", ErrInvalidWine, w.Quantity)
	}
	if w.Price.IsNegative() {
		return fmt.Errorf("%w: price %s is negative", ErrInvalidWine, w.Price)
	}
	return nil
}

func (w Wine) IsLowStock(threshold int) bool {
	return w.Quantity <= threshold
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWine     = errors.New("invalid wine")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidFilter   = errors.New("invalid history filter")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrDuplicateWine   = errors.New("wine already exists")
	ErrWineNotFound    = errors.New("wine not found")
	ErrNotEnoughStock  = errors.New("not enough stock")
	ErrLockTimeout     = errors.New("inventory lock not acquired in time")
)

// ErrDuplicateEntryID is a history entry id collision. It is an internal
// failure, not a duplicate wine.
var ErrDuplicateEntryID = errors.New("duplicate history entry id")

type NotEnoughStockError struct {
	WineID    string
	StockLeft int
}

func (e *NotEnoughStockError) Error() string {
	return fmt.Sprintf("not enough stock for wine %s: %d left", e.WineID, e.StockLeft)
}

func (e *NotEnoughStockError) Unwrap() error {
	return ErrNotEnoughStock
}

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidInput
	KindDuplicateWine
	KindWineNotFound
	KindNotEnoughStock
	KindLockTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindDuplicateWine:
		return "duplicate_wine"
	case KindWineNotFound:
		return "wine_not_found"
	case KindNotEnoughStock:
		return "not_enough_stock"
	case KindLockTimeout:
		return "lock_timeout"
	}
	return "unknown"
}

// KindOf classifies err so adapters can switch over a closed set.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidWine), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidFilter):
		return KindInvalidInput
	case errors.Is(err, ErrDuplicateWine), errors.Is(err, ErrDuplicateID):
		return KindDuplicateWine
	case errors.Is(err, ErrWineNotFound):
		return KindWineNotFound
	case errors.Is(err, ErrNotEnoughStock):
		return KindNotEnoughStock
	case errors.Is(err, ErrLockTimeout):
		return KindLockTimeout
	}
	return KindUnknown
}

// IsTransient reports whether the operation was not applied because of lock
// contention and may be retried.
func IsTransient(err error) bool {
	return KindOf(err) == KindLockTimeout
}

// StockLeft extracts the remaining stock from a not-enough-stock error.
func StockLeft(err error) (int, bool) {
	var nes *NotEnoughStockError
	if errors.As(err, &nes) {
		return nes.StockLeft, true
	}
	return 0, false
}

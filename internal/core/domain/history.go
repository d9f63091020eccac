package domain

import (
	"fmt"
	"time"
)

type HistoryType string

const (
	HistoryTypeStockIn  HistoryType = "STOCK_IN"
	HistoryTypeStockOut HistoryType = "STOCK_OUT"
)

func ParseHistoryType(s string) (HistoryType, error) {
	switch HistoryType(s) {
	case HistoryTypeStockIn, HistoryTypeStockOut:
		return HistoryType(s), nil
	}
	return "", fmt.Errorf("unknown history type %q", s)
}

// HistoryEntry is one stock movement. QuantityChanged is always the number of
// bottles moved; Type carries the direction.
type HistoryEntry struct {
	ID              string
	WineID          string
	Type            HistoryType
	QuantityChanged int
	ModifiedBy      string
	CreatedAt       time.Time
}

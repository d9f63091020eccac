package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

type WineDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CountryCode string          `json:"country_code"`
	Vintage     int             `json:"vintage"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type HistoryDTO struct {
	ID              string    `json:"id"`
	WineID          string    `json:"wine_id"`
	Type            string    `json:"type"`
	QuantityChanged int       `json:"quantity_changed"`
	ModifiedBy      string    `json:"modified_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type RegisterWineRequest struct {
	ID          string          `json:"id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	CountryCode string          `json:"country_code" binding:"required,len=2"`
	Vintage     int             `json:"vintage"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"gte=0"`
	ModifiedBy  string          `json:"modified_by"`
}

type StockRequest struct {
	Quantity   int    `json:"quantity" binding:"required"`
	ModifiedBy string `json:"modified_by"`
}

type DeleteWineRequest struct {
	ModifiedBy string `json:"modified_by"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	StockLeft *int   `json:"stock_left,omitempty"`
}

func (r RegisterWineRequest) toDomain() domain.Wine {
	return domain.Wine{
		ID:          r.ID,
		Name:        r.Name,
		CountryCode: r.CountryCode,
		Vintage:     r.Vintage,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}

func toWineDTO(w domain.Wine) WineDTO {
	return WineDTO{
		ID:          w.ID,
		Name:        w.Name,
		CountryCode: w.CountryCode,
		Vintage:     w.Vintage,
		Price:       w.Price,
		Quantity:    w.Quantity,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWineDTOs(wines []domain.Wine) []WineDTO {
	out := make([]WineDTO, 0, len(wines))
	for _, w := range wines {
		out = append(out, toWineDTO(w))
	}
	return out
}

func toHistoryDTOs(entries []domain.HistoryEntry) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryDTO{
			ID:              e.ID,
			WineID:          e.WineID,
			Type:            string(e.Type),
			QuantityChanged: e.QuantityChanged,
			ModifiedBy:      e.ModifiedBy,
			CreatedAt:       e.CreatedAt,
		})
	}
	return out
}

// HistoryQuery holds the optional history filters. Empty fields are ignored.
type HistoryQuery struct {
	ID              string `json:"id,omitempty"`
	Type            string `json:"type,omitempty"`
	WineID          string `json:"wine_id,omitempty"`
	QuantityChanged string `json:"quantity_changed,omitempty"`
	ModifiedBy      string `json:"modified_by,omitempty"`
}

func (q HistoryQuery) filters() ([]domain.HistoryFilter, error) {
	var filters []domain.HistoryFilter
	if q.ID != "" {
		filters = append(filters, domain.ByID(q.ID))
	}
	if q.Type != "" {
		t, err := domain.ParseHistoryType(q.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
		}
		filters = append(filters, domain.ByType(t))
	}
	if q.WineID != "" {
		filters = append(filters, domain.ByWineID(q.WineID))
	}
	if q.QuantityChanged != "" {
		n, err := strconv.Atoi(q.QuantityChanged)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity_changed %q is not a number", domain.ErrInvalidFilter, q.QuantityChanged)
		}
		filters = append(filters, domain.ByQuantityChanged(n))
	}
	if q.ModifiedBy != "" {
		filters = append(filters, domain.ByModifiedBy(q.ModifiedBy))
	}
	return filters, nil
}

package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/port"
)

const DefaultLowStockThreshold = 5

type LowStockAlert struct {
	wines     port.WineRepository
	sink      port.AlertSink
	threshold int
	logger    logrus.FieldLogger
}

func NewLowStockAlert(wines port.WineRepository, sink port.AlertSink, threshold int, logger logrus.FieldLogger) *LowStockAlert {
	if logger == nil {
		logger = discardLogger()
	}
	return &LowStockAlert{
		wines:     wines,
		sink:      sink,
		threshold: threshold,
		logger:    logger,
	}
}

func (a *LowStockAlert) Threshold() int {
	return a.threshold
}

// Execute alerts when the wine is at or below the threshold. A missing wine
// is ignored and sink failures never reach the caller.
func (a *LowStockAlert) Execute(ctx context.Context, wineID string) {
	wine, err := a.wines.FindByID(ctx, wineID)
	if err != nil {
		a.logger.WithError(err).WithField("wine_id", wineID).Warn("low stock check skipped")
		return
	}
	if wine == nil || !wine.IsLowStock(a.threshold) {
		return
	}

	a.send(ctx, *wine, LowStockMessage(*wine, a.threshold))
}

func (a *LowStockAlert) send(ctx context.Context, wine domain.Wine, message string) {
	fields := logrus.Fields{
		"wine_id":   wine.ID,
		"quantity":  wine.Quantity,
		"threshold": a.threshold,
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(fields).Errorf("alert sink panicked: %v", r)
		}
	}()

	if err := a.sink.SendAlert(ctx, message); err != nil {
		a.logger.WithFields(fields).WithError(err).Error("failed to send low stock alert")
	}
}

func LowStockMessage(wine domain.Wine, threshold int) string {
	unit := "bottles"
	if wine.Quantity == 1 {
		unit = "bottle"
	}
	return fmt.Sprintf("low stock: wine %s %q has %d %s left (threshold %d)",
		wine.ID, wine.Name, wine.Quantity, unit, threshold)
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/rl1809/wine-inventory/internal/adapter/storage"
	"github.com/rl1809/wine-inventory/internal/core/domain"
)

func TestLowStockAlert_Execute(t *testing.T) {
	ctx := context.Background()
	wines := storage.NewMemoryWineAdapter()
	wines.Save(ctx, domain.Wine{ID: "low", Name: "Pinot", Quantity: 5, Price: decimal.NewFromInt(20)})
	wines.Save(ctx, domain.Wine{ID: "ok", Name: "Syrah", Quantity: 6})

	sink := &mockAlertSink{}
	alert := NewLowStockAlert(wines, sink, 5, nil)

	alert.Execute(ctx, "ok")
	assert.Zero(t, sink.count())

	alert.Execute(ctx, "low")
	assert.Equal(t, []string{`low stock: wine low "Pinot" has 5 bottles left (threshold 5)`}, sink.messages)

	alert.Execute(ctx, "deleted-meanwhile")
	assert.Equal(t, 1, sink.count())
}

func TestLowStockAlert_SinkErrorIsLogged(t *testing.T) {
	ctx := context.Background()
	wines := storage.NewMemoryWineAdapter()
	wines.Save(ctx, domain.Wine{ID: "w1", Quantity: 1})

	logger, hook := logtest.NewNullLogger()
	alert := NewLowStockAlert(wines, &mockAlertSink{err: errors.New("smtp down")}, 5, logger)

	alert.Execute(ctx, "w1")

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, "failed to send low stock alert", entry.Message)
		assert.Equal(t, "w1", entry.Data["wine_id"])
	}
}

func TestLowStockMessage_Singular(t *testing.T) {
	msg := LowStockMessage(domain.Wine{ID: "w1", Name: "Tokaji", Quantity: 1}, 5)
	assert.Equal(t, `low stock: wine w1 "Tokaji" has 1 bottle left (threshold 5)`, msg)
}

package handler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/rl1809/wine-inventory/internal/adapter/alert"
	"github.com/rl1809/wine-inventory/internal/adapter/lock"
	"github.com/rl1809/wine-inventory/internal/adapter/storage"
	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/core/service"
	"github.com/rl1809/wine-inventory/internal/port"
)

type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context, timeout time.Duration) (func(), error) {
	return nil, domain.ErrLockTimeout
}

func newInventory(locker port.Locker) (*service.InventoryService, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	wines := storage.NewMemoryWineAdapter()
	ledger := service.NewHistoryLedger(storage.NewMemoryHistoryAdapter())
	lowStock := service.NewLowStockAlert(wines, alert.NewLogSink(logger), service.DefaultLowStockThreshold, logger)
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	svc := service.NewInventoryService(wines, ledger, locker, lowStock,
		service.WithLogger(logger),
		service.WithLockTimeout(50*time.Millisecond),
	)
	return svc, hook
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/wine-inventory/internal/adapter/alert"
	"github.com/rl1809/wine-inventory/internal/adapter/lock"
	"github.com/rl1809/wine-inventory/internal/adapter/storage"
	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/core/service"
	"github.com/rl1809/wine-inventory/internal/port"
)

const (
	wineID        = "stress-wine"
	initialStock  = 20
	totalRequests = 50
	lockTimeout   = 5 * time.Second
)

func main() {
	redisAddr := flag.String("redis", "", "serialise through a Redis lock at this address instead of the in-process lock")
	flag.Parse()

	ctx := context.Background()
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	var locker port.Locker = lock.NewLocalLocker()
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, "lock:wine-inventory:stress", lock.DefaultLockTTL, logger)
	}

	wines := storage.NewMemoryWineAdapter()
	history := storage.NewMemoryHistoryAdapter()
	ledger := service.NewHistoryLedger(history)
	lowStock := service.NewLowStockAlert(wines, alert.NewLogSink(logger), service.DefaultLowStockThreshold, logger)
	inventory := service.NewInventoryService(wines, ledger, locker, lowStock,
		service.WithLockTimeout(lockTimeout),
		service.WithLogger(logger),
	)

	seed := domain.Wine{ID: wineID, Name: "Stress Test Merlot", CountryCode: "FR", Vintage: 2020, Quantity: initialStock}
	if _, err := inventory.Register(ctx, seed, "stress-test"); err != nil {
		log.Fatalf("failed to register wine: %v", err)
	}

	// Counters
	var successCount, notEnoughCount, otherCount atomic.Int32

	// Spawn concurrent retrieves
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()

			_, err := inventory.Retrieve(ctx, wineID, 1, fmt.Sprintf("client-%d", clientID))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrNotEnoughStock):
				notEnoughCount.Add(1)
			default:
				otherCount.Add(1)
				log.Printf("client %d: unexpected error: %v", clientID, err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	notEnough := notEnoughCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Not Enough Stock: %d\n", notEnough)
	fmt.Printf("Other Errors:     %d\n", otherCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == initialStock && notEnough == totalRequests-initialStock {
		fmt.Printf("PASS: Exactly %d retrieves succeeded, %d were refused\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d refused, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, notEnough)
	}

	final, err := inventory.Get(ctx, wineID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", final.Quantity)

	if final.Quantity == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", final.Quantity)
	}

	outs, err := inventory.Histories(ctx, domain.ByWineID(wineID), domain.ByType(domain.HistoryTypeStockOut))
	if err != nil {
		log.Fatalf("failed to read history: %v", err)
	}
	if len(outs) == initialStock {
		fmt.Printf("PASS: %d STOCK_OUT entries logged\n", len(outs))
	} else {
		fmt.Printf("FAIL: Expected %d STOCK_OUT entries, got %d\n", initialStock, len(outs))
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/wine-inventory/internal/adapter/alert"
	"github.com/rl1809/wine-inventory/internal/adapter/handler"
	"github.com/rl1809/wine-inventory/internal/adapter/lock"
	"github.com/rl1809/wine-inventory/internal/adapter/storage"
	"github.com/rl1809/wine-inventory/internal/config"
	"github.com/rl1809/wine-inventory/internal/core/service"
	"github.com/rl1809/wine-inventory/internal/port"
)

func main() {
	configPath := flag.String("config", os.Getenv("WINE_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("failed to build logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		logger.Info("connections closed")
	}()

	// Storage
	var (
		wines   port.WineRepository
		history port.HistoryRepository
	)
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		db, err := openMySQL(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		closers = append(closers, func() { db.Close() })
		logger.Info("connected to mysql")

		wines = storage.NewMySQLWineAdapter(db)
		history = storage.NewMySQLHistoryAdapter(db)
	default:
		wines = storage.NewMemoryWineAdapter()
		history = storage.NewMemoryHistoryAdapter()
		logger.Info("using in-memory storage")
	}

	// Redis
	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { rdb.Close() })
		logger.Info("connected to redis")
	}

	// Lock
	var locker port.Locker = lock.NewLocalLocker()
	if cfg.Inventory.Locker == config.LockerRedis {
		locker = lock.NewRedisLocker(rdb, cfg.Inventory.LockKey, cfg.Inventory.LockTTL, logger)
	}

	// Alerts
	sink, stopSinks, err := buildAlertSink(ctx, cfg, rdb, logger)
	if err != nil {
		return err
	}
	closers = append(closers, stopSinks)

	// Core
	ledger := service.NewHistoryLedger(history)
	lowStock := service.NewLowStockAlert(wines, sink, cfg.Inventory.LowStockThreshold, logger)
	inventory := service.NewInventoryService(wines, ledger, locker, lowStock,
		service.WithLockTimeout(cfg.Inventory.LockTimeout),
		service.WithLogger(logger),
	)

	// gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(inventory, logger))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(handler.InventoryServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	go func() {
		logger.Infof("gRPC server listening on %s", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.WithError(err).Error("gRPC server error")
		}
	}()

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(logger))
	handler.NewHTTPHandler(inventory, logger).Routes(router)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	return nil
}

func openMySQL(ctx context.Context, cfg config.StorageConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func buildAlertSink(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *logrus.Logger) (port.AlertSink, func(), error) {
	var (
		sinks []port.AlertSink
		stops []func()
	)
	stop := func() {
		for _, s := range stops {
			s()
		}
	}

	for _, name := range cfg.Alert.Sinks {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, alert.NewLogSink(logger))
		case config.SinkRedis:
			sinks = append(sinks, alert.NewRedisSink(rdb, cfg.Alert.RedisChannel))
		case config.SinkPubSub:
			client, err := pubsub.NewClient(ctx, cfg.Alert.PubSubProject)
			if err != nil {
				stop()
				return nil, nil, fmt.Errorf("connect pubsub: %w", err)
			}
			ps := alert.NewPubSubSink(client.Topic(cfg.Alert.PubSubTopic), cfg.Alert.PublishTimeout)
			sinks = append(sinks, ps)
			stops = append(stops, ps.Stop, func() { client.Close() })
		}
		logger.WithField("sink", name).Info("low stock alert sink enabled")
	}

	if len(sinks) == 1 {
		return sinks[0], stop, nil
	}
	return alert.FanOut(sinks), stop, nil
}

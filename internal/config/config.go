package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "WINE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Alert     AlertConfig     `mapstructure:"alert"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver          string        `mapstructure:"driver"`
	MySQLDSN        string        `mapstructure:"mysql_dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type InventoryConfig struct {
	LowStockThreshold int           `mapstructure:"low_stock_threshold"`
	LockTimeout       time.Duration `mapstructure:"lock_timeout"`
	Locker            string        `mapstructure:"locker"`
	LockKey           string        `mapstructure:"lock_key"`
	LockTTL           time.Duration `mapstructure:"lock_ttl"`
}

type AlertConfig struct {
	Sinks          []string      `mapstructure:"sinks"`
	RedisChannel   string        `mapstructure:"redis_channel"`
	PubSubProject  string        `mapstructure:"pubsub_project"`
	PubSubTopic    string        `mapstructure:"pubsub_topic"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"

	LockerLocal = "local"
	LockerRedis = "redis"

	SinkLog    = "log"
	SinkRedis  = "redis"
	SinkPubSub = "pubsub"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.grpc_addr", ":50051")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.mysql_dsn", "root:root@tcp(localhost:3306)/wine_inventory?parseTime=true")
	v.SetDefault("storage.max_open_conns", 50)
	v.SetDefault("storage.max_idle_conns", 25)
	v.SetDefault("storage.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("inventory.low_stock_threshold", 5)
	v.SetDefault("inventory.lock_timeout", time.Second)
	v.SetDefault("inventory.locker", LockerLocal)
	v.SetDefault("inventory.lock_key", "lock:wine-inventory")
	v.SetDefault("inventory.lock_ttl", 10*time.Second)

	v.SetDefault("alert.sinks", []string{SinkLog})
	v.SetDefault("alert.redis_channel", "wine-inventory:alerts")
	v.SetDefault("alert.pubsub_project", "")
	v.SetDefault("alert.pubsub_topic", "wine-low-stock")
	v.SetDefault("alert.publish_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads the optional YAML file at path, then .env and WINE_* environment
// overrides (WINE_INVENTORY_LOW_STOCK_THRESHOLD=3).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverMySQL:
		if c.Storage.MySQLDSN == "" {
			errs = append(errs, errors.New("storage.mysql_dsn is required for the mysql driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if c.Inventory.LowStockThreshold < 0 {
		errs = append(errs, fmt.Errorf("inventory.low_stock_threshold must not be negative, got %d", c.Inventory.LowStockThreshold))
	}
	if c.Inventory.LockTimeout <= 0 {
		errs = append(errs, fmt.Errorf("inventory.lock_timeout must be positive, got %s", c.Inventory.LockTimeout))
	}

	switch c.Inventory.Locker {
	case LockerLocal:
	case LockerRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis locker"))
		}
		if c.Inventory.LockTTL <= c.Inventory.LockTimeout {
			errs = append(errs, errors.New("inventory.lock_ttl must exceed inventory.lock_timeout"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown inventory.locker %q", c.Inventory.Locker))
	}

	for _, sink := range c.Alert.Sinks {
		switch sink {
		case SinkLog:
		case SinkRedis:
			if c.Redis.Addr == "" {
				errs = append(errs, errors.New("redis.addr is required for the redis alert sink"))
			}
		case SinkPubSub:
			if c.Alert.PubSubProject == "" || c.Alert.PubSubTopic == "" {
				errs = append(errs, errors.New("alert.pubsub_project and alert.pubsub_topic are required for the pubsub alert sink"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown alert sink %q", sink))
		}
	}

	return errors.Join(errs...)
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	if c.Inventory.Locker == LockerRedis {
		return true
	}
	for _, sink := range c.Alert.Sinks {
		if sink == SinkRedis {
			return true
		}
	}
	return false
}

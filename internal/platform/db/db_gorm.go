// Package db はGORMによるデータベース接続の確立とマイグレーションを提供します。
// MySQL・PostgreSQL・SQLiteの3つのドライバに対応しています。
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authentity "faculty_backend/internal/feature/auth/domain/entity"
	teacherentity "faculty_backend/internal/feature/teacher/domain/entity"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported values of Config.Driver.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultConnectTimeout = 60 * time.Second
	retryInterval         = 3 * time.Second
)

// Config holds connection settings. Unused fields are ignored per driver.
type Config struct {
	Driver       string `mapstructure:"driver"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	InstanceName string `mapstructure:"instance_name"` // Cloud SQL instance connection name
	SSLMode      string `mapstructure:"sslmode"`
	Path         string `mapstructure:"path"` // SQLite file path or ":memory:"

	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	RunMigrations  bool          `mapstructure:"run_migrations"`
}

// Opener opens a *gorm.DB for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN renders the driver-specific connection string.
// InstanceNameが設定されている場合はCloud SQLのUnixソケット接続を優先します。
func BuildDSN(cfg Config) string {
	switch cfg.Driver {
	case DriverPostgres:
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		if cfg.InstanceName != "" {
			return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
				cfg.InstanceName, cfg.User, cfg.Password, cfg.Name, sslmode)
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslmode)

	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "faculty.db"
		}
		if strings.Contains(path, "?") {
			return path
		}
		return path + "?_foreign_keys=on"

	default:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
}

// NewOpener returns an Opener for driver. An empty driver means MySQL.
// TranslateError is enabled so unique violations surface as gorm.ErrDuplicatedKey.
func NewOpener(driver string) (Opener, error) {
	var dial func(string) gorm.Dialector
	switch driver {
	case DriverMySQL, "":
		dial = gmysql.Open
	case DriverPostgres:
		dial = postgres.Open
	case DriverSQLite:
		dial = sqlite.Open
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dial(dsn), &gorm.Config{TranslateError: true})
	}, nil
}

// ConnectWithRetry calls open every 3 seconds until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, open)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}

// Open connects using cfg and applies migrations when cfg.RunMigrations is set.
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// SQLiteは単一ライターのため、トランザクションを1接続に直列化します。
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the auth_user and teachers tables.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("migrate: nil db")
	}
	// 外部キーの都合上、auth_user を先に作成します。
	if err := db.AutoMigrate(&authentity.User{}, &teacherentity.Teacher{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping checks connectivity of the underlying pool within ctx's deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

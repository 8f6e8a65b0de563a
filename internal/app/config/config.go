// Package config はアプリケーション設定を環境変数（および任意の .env）から読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"faculty_backend/internal/platform/db"
	"faculty_backend/internal/platform/redis"
)

// InsecureJWTSecret is the documented development default.
// Validate rejects it outside local and test.
const InsecureJWTSecret = "your-secret-key"

// Environments in which the insecure defaults are tolerated.
const (
	EnvLocal      = "local"
	EnvTest       = "test"
	EnvProduction = "production"
)

var ErrInsecureSecret = errors.New("JWT_SECRET must be set to a non-default value outside local/test")

type Config struct {
	App   AppConfig    `mapstructure:"app"`
	HTTP  HTTPConfig   `mapstructure:"http"`
	DB    db.Config    `mapstructure:"db"`
	Redis redis.Config `mapstructure:"redis"`
	JWT   JWTConfig    `mapstructure:"jwt"`
	Log   LogConfig    `mapstructure:"log"`
	Cache CacheConfig  `mapstructure:"cache"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	Namespace string        `mapstructure:"namespace"`
}

// envBindings maps config keys to the variable names used by the deployment.
// Keys not listed here still resolve via AutomaticEnv (db.user -> DB_USER).
var envBindings = map[string]string{
	"app.env":               "APP_ENV",
	"http.port":             "PORT",
	"db.instance_name":      "INSTANCE_CONNECTION_NAME",
	"db.run_migrations":     "RUN_MIGRATIONS",
	"db.connect_timeout":    "DB_CONNECT_TIMEOUT",
	"db.driver":             "DB_DRIVER",
	"db.user":               "DB_USER",
	"db.password":           "DB_PASSWORD",
	"db.name":               "DB_NAME",
	"db.host":               "DB_HOST",
	"db.port":               "DB_PORT",
	"db.sslmode":            "DB_SSLMODE",
	"db.path":               "DB_PATH",
	"redis.host":            "REDIS_HOST",
	"redis.port":            "REDIS_PORT",
	"redis.password":        "REDIS_PASSWORD",
	"redis.db":              "REDIS_DB",
	"jwt.secret":            "JWT_SECRET",
	"log.level":             "LOG_LEVEL",
	"log.format":            "LOG_FORMAT",
	"cache.ttl":             "CACHE_TTL",
	"http.cors_origins":     "CORS_ORIGINS",
	"http.shutdown_timeout": "SHUTDOWN_TIMEOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "faculty_backend")
	v.SetDefault("app.env", EnvProduction)

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.driver", db.DriverMySQL)
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", "3306")
	v.SetDefault("db.connect_timeout", 60*time.Second)
	v.SetDefault("db.run_migrations", false)

	v.SetDefault("redis.port", 6379)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.namespace", "teachers")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .envを読み込む（存在しなくてもよい）
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	if cfg.JWT.Secret == "" && cfg.InsecureAllowed() {
		cfg.JWT.Secret = InsecureJWTSecret
	}
	return &cfg, nil
}

// InsecureAllowed reports whether development defaults may be used.
func (c *Config) InsecureAllowed() bool {
	return c.App.Env == EnvLocal || c.App.Env == EnvTest
}

// Validate fails startup on settings that must not reach production.
func (c *Config) Validate() error {
	if !c.InsecureAllowed() && (c.JWT.Secret == "" || c.JWT.Secret == InsecureJWTSecret) {
		return ErrInsecureSecret
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	switch c.DB.Driver {
	case db.DriverMySQL, db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

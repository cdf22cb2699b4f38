package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const (
	CacheDriverNone   = "none"
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Cache        CacheConfig        `toml:"cache"`
	Redis        RedisConfig        `toml:"redis"`
	Availability AvailabilityConfig `toml:"availability"`
	RateLimit    RateLimitConfig    `toml:"ratelimit"`
	Access       AccessConfig       `toml:"access"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CacheConfig кэш рассчитанных рабочих окон по (мастер, дата)
type CacheConfig struct {
	Driver     string `toml:"driver"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни записи кэша
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// AvailabilityConfig параметры расчета доступности
type AvailabilityConfig struct {
	DefaultHorizonDays int `toml:"default_horizon_days"`
	MaxHorizonDays     int `toml:"max_horizon_days"`
	Workers            int `toml:"workers"` // 0 = GOMAXPROCS
}

// RateLimitConfig ограничение частоты запросов к публичным ручкам (на клиента)
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// AccessConfig пользователи с правами администратора заведения.
// Мастер управляет своим расписанием, если его X-User-ID совпадает с barberId.
type AccessConfig struct {
	ManagerIDs []int64 `toml:"manager_ids"`
}

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация для локального запуска
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc_availability_service",
		},
		Cache: CacheConfig{
			Driver:     CacheDriverMemory,
			TTLSeconds: 300,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "availability",
		},
		Availability: AvailabilityConfig{
			DefaultHorizonDays: 14,
			MaxHorizonDays:     60,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
	}
}

// applyDefaults восстанавливает значения, явно обнуленные в файле
func (c *Config) applyDefaults() {
	def := Default()

	if c.Cache.Driver == "" {
		c.Cache.Driver = def.Cache.Driver
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = def.Metrics.Path
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = def.Metrics.ServiceName
	}
	if c.Availability.DefaultHorizonDays == 0 {
		c.Availability.DefaultHorizonDays = def.Availability.DefaultHorizonDays
	}
	if c.Availability.MaxHorizonDays == 0 {
		c.Availability.MaxHorizonDays = def.Availability.MaxHorizonDays
	}
	if c.Logs.Level == "" {
		c.Logs.Level = def.Logs.Level
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Cache.Driver {
	case CacheDriverNone, CacheDriverMemory:
	case CacheDriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for cache driver %q", ErrInvalidConfig, c.Cache.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown cache.driver %q", ErrInvalidConfig, c.Cache.Driver)
	}

	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must not be negative", ErrInvalidConfig)
	}

	if c.Availability.DefaultHorizonDays < 0 || c.Availability.MaxHorizonDays < 0 {
		return fmt.Errorf("%w: availability horizon must not be negative", ErrInvalidConfig)
	}
	if c.Availability.DefaultHorizonDays > c.Availability.MaxHorizonDays {
		return fmt.Errorf("%w: availability.default_horizon_days (%d) exceeds max_horizon_days (%d)",
			ErrInvalidConfig, c.Availability.DefaultHorizonDays, c.Availability.MaxHorizonDays)
	}
	if c.Availability.Workers < 0 {
		return fmt.Errorf("%w: availability.workers must not be negative", ErrInvalidConfig)
	}

	for _, id := range c.Access.ManagerIDs {
		if id <= 0 {
			return fmt.Errorf("%w: access.manager_ids must be positive, got %d", ErrInvalidConfig, id)
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: ratelimit.rps and ratelimit.burst must be positive", ErrInvalidConfig)
	}

	return nil
}

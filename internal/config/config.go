package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	Booking   BookingConfig   `toml:"booking"`
	Admin     AdminConfig     `toml:"admin"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки кэша правил календаря
// Пустой Address отключает кэш
type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// Enabled включен ли кэш
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// BookingConfig правила приёма бронирований
type BookingConfig struct {
	Timezone           string `toml:"timezone"`
	DayRolloverTime    string `toml:"day_rollover_time"` // HH:MM, пусто = без переноса
	AdvanceBookingDays int    `toml:"advance_booking_days"`
	MinNoticeMinutes   int    `toml:"min_notice_minutes"`
}

// Location часовой пояс салона
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

// AdminConfig доступ к административным маршрутам
type AdminConfig struct {
	Token string `toml:"token"`
}

// RateLimitConfig ограничение частоты создания бронирований
type RateLimitConfig struct {
	BookingRPS   float64 `toml:"booking_rps"`
	BookingBurst int     `toml:"booking_burst"`
}

// Load читает конфигурацию из TOML файла.
// Переменные окружения (и .env, если есть) переопределяют секреты
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "barber_booking"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{TTL: 300},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Booking: BookingConfig{
			Timezone:           "Europe/Berlin",
			AdvanceBookingDays: 60,
		},
		RateLimit: RateLimitConfig{BookingRPS: 5, BookingBurst: 10},
	}
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		cfg.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v, ok := os.LookupEnv("DB_USER"); ok {
		cfg.Database.User = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_NAME"); ok {
		cfg.Database.DBName = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDRESS"); ok {
		cfg.Redis.Address = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.Redis.Password = v
	}
	if v, ok := os.LookupEnv("ADMIN_TOKEN"); ok {
		cfg.Admin.Token = v
	}
}

// Validate проверяет значения, от которых зависит корректность расписания
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.DayRolloverTime != "" {
		if _, err := time.Parse("15:04", c.Booking.DayRolloverTime); err != nil {
			return fmt.Errorf("%w: booking.day_rollover_time must be HH:MM", ErrInvalidConfig)
		}
	}
	if c.Booking.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: booking.advance_booking_days must not be negative", ErrInvalidConfig)
	}
	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.min_notice_minutes must not be negative", ErrInvalidConfig)
	}
	return nil
}

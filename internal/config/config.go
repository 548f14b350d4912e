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

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Redis       RedisConfig       `toml:"redis"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	UserService UserServiceConfig `toml:"user_service"`
	Clinic      ClinicConfig      `toml:"clinic"`
	PolicyCache PolicyCacheConfig `toml:"policy_cache"`
	Reminders   RemindersConfig   `toml:"reminders"`
	SendGrid    SendGridConfig    `toml:"sendgrid"`
	Twilio      TwilioConfig      `toml:"twilio"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig пустой Addr отключает кэш политики и распределенный захват напоминаний
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// ClinicConfig параметры клиники (часовой пояс, шаг сетки слотов)
type ClinicConfig struct {
	Timezone        string `toml:"timezone"`
	SlotStepMinutes int    `toml:"slot_step_minutes"`
}

// Location возвращает часовой пояс клиники
func (c ClinicConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type PolicyCacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

type RemindersConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	LookaheadHours  int  `toml:"lookahead_hours"`
	ClaimTTLSeconds int  `toml:"claim_ttl_seconds"`
}

type SendGridConfig struct {
	APIKey    string `toml:"api_key"`
	FromEmail string `toml:"from_email"`
	FromName  string `toml:"from_name"`
}

type TwilioConfig struct {
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
	FromNumber string `toml:"from_number"`
}

// Load читает конфигурацию из TOML-файла
// Если файл отсутствует, используются значения по умолчанию
// Секреты переопределяются переменными окружения (в т.ч. из .env)
func Load(path string) (*Config, error) {
	// .env опционален
	_ = godotenv.Load()

	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrideString(&c.Database.Host, "DB_HOST")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.DBName, "DB_NAME")
	overrideString(&c.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.SendGrid.APIKey, "SENDGRID_API_KEY")
	overrideString(&c.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	overrideString(&c.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	overrideString(&c.Twilio.FromNumber, "TWILIO_FROM_NUMBER")

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		c.Database.Port = port
	}

	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 30)

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	setDefault(&c.Database.Port, 5432)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "clinic-booking-service"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	setDefault(&c.UserService.Timeout, 5)

	if c.Clinic.Timezone == "" {
		c.Clinic.Timezone = "Local"
	}
	setDefault(&c.Clinic.SlotStepMinutes, 15)

	setDefault(&c.PolicyCache.TTLSeconds, 300)

	setDefault(&c.Reminders.IntervalMinutes, 60)
	setDefault(&c.Reminders.LookaheadHours, 24)
	setDefault(&c.Reminders.ClaimTTLSeconds, 600)
}

func setDefault(dst *int, value int) {
	if *dst == 0 {
		*dst = value
	}
}

// Validate проверяет корректность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Reminders.IntervalMinutes < 1 {
		return fmt.Errorf("%w: reminders.interval_minutes must be positive", ErrInvalidConfig)
	}
	if c.Reminders.LookaheadHours < 1 {
		return fmt.Errorf("%w: reminders.lookahead_hours must be positive", ErrInvalidConfig)
	}
	if c.Clinic.SlotStepMinutes < 1 || c.Clinic.SlotStepMinutes > 240 {
		return fmt.Errorf("%w: clinic.slot_step_minutes=%d", ErrInvalidConfig, c.Clinic.SlotStepMinutes)
	}
	if _, err := c.Clinic.Location(); err != nil {
		return fmt.Errorf("%w: clinic.timezone=%q: %v", ErrInvalidConfig, c.Clinic.Timezone, err)
	}
	if c.UserService.URL == "" && c.Reminders.Enabled {
		return fmt.Errorf("%w: user_service.url is required when reminders are enabled", ErrInvalidConfig)
	}
	return nil
}

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

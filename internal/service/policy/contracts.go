package policy

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SettingsRepository источник сырого JSON политики бронирования
type SettingsRepository interface {
	GetBookingPolicy(ctx context.Context) ([]byte, error)
	SaveBookingPolicy(ctx context.Context, raw []byte) error
}

// Cache подмножество команд redis, используемых для кэша политики
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Metrics учет обращений к кэшу
type Metrics interface {
	ObservePolicyCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

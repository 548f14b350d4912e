package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// CacheKey ключ redis с разобранной политикой
const CacheKey = "clinic:booking_policy"

// Store отдает политику бронирования клиники
// GetPolicy никогда не возвращает ошибку: при отсутствии или порче настроек используются значения по умолчанию
type Store struct {
	settings SettingsRepository
	cache    Cache
	cacheTTL time.Duration
	metrics  Metrics
	logger   Logger
}

// NewStore создает хранилище политики. cache и metrics могут быть nil
func NewStore(settings SettingsRepository, cache Cache, cacheTTL time.Duration, metrics Metrics, logger Logger) *Store {
	return &Store{
		settings: settings,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetPolicy возвращает действующую политику
func (s *Store) GetPolicy(ctx context.Context) domain.BookingPolicy {
	if policy, ok := s.fromCache(ctx); ok {
		return policy
	}

	policy, cacheable := s.load(ctx)
	if cacheable {
		s.toCache(ctx, policy)
	}
	return policy
}

// Invalidate удаляет политику из кэша
func (s *Store) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, CacheKey).Err(); err != nil {
		s.logger.Warn("Invalidate: failed to drop cached policy: %v", err)
	}
}

// Refresh перечитывает политику из настроек и обновляет кэш
func (s *Store) Refresh(ctx context.Context) domain.BookingPolicy {
	s.Invalidate(ctx)
	return s.GetPolicy(ctx)
}

// Update применяет частичное обновление, сохраняет политику и сбрасывает кэш
func (s *Store) Update(ctx context.Context, patch domain.BookingPolicyPatch) (domain.BookingPolicy, error) {
	raw, err := s.settings.GetBookingPolicy(ctx)
	if err != nil {
		s.logger.Error("UpdatePolicy: failed to read current policy: %v", err)
		return domain.BookingPolicy{}, fmt.Errorf("%w: UpdatePolicy - read policy: %v", ErrInternal, err)
	}

	current := domain.DefaultBookingPolicy()
	if raw != nil {
		current = s.parse(raw)
	}
	updated := current.Apply(patch)

	if err := updated.Validate(); err != nil {
		s.logger.Warn("UpdatePolicy: validation failed: %v", err)
		return domain.BookingPolicy{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	raw, err = json.Marshal(updated)
	if err != nil {
		return domain.BookingPolicy{}, fmt.Errorf("%w: UpdatePolicy - marshal policy: %v", ErrInternal, err)
	}

	if err := s.settings.SaveBookingPolicy(ctx, raw); err != nil {
		s.logger.Error("UpdatePolicy: failed to save policy: %v", err)
		return domain.BookingPolicy{}, fmt.Errorf("%w: UpdatePolicy - save policy: %v", ErrInternal, err)
	}

	s.Invalidate(ctx)

	s.logger.Info("UpdatePolicy: policy updated: maxAdvanceDays=%d, minAdvanceHours=%d, cancellationHours=%d, allowOnlineBooking=%t",
		updated.MaxAdvanceDays, updated.MinAdvanceHours, updated.CancellationHours, updated.AllowOnlineBooking)
	return updated, nil
}

// load читает политику из настроек. Второе значение false, если использованы
// значения по умолчанию из-за ошибки хранилища (такой результат не кэшируется)
func (s *Store) load(ctx context.Context) (domain.BookingPolicy, bool) {
	raw, err := s.settings.GetBookingPolicy(ctx)
	if err != nil {
		s.logger.Error("GetPolicy: settings unavailable, using defaults: %v", err)
		return domain.DefaultBookingPolicy(), false
	}

	if raw == nil {
		s.logger.Info("GetPolicy: booking policy is not configured, using defaults")
		return domain.DefaultBookingPolicy(), true
	}

	return s.parse(raw), true
}

// storedPolicy JSON политики в настройках; отсутствующие поля берутся по умолчанию
type storedPolicy struct {
	MaxAdvanceDays     *int  `json:"maxAdvanceDays"`
	MinAdvanceHours    *int  `json:"minAdvanceHours"`
	CancellationHours  *int  `json:"cancellationHours"`
	AllowOnlineBooking *bool `json:"allowOnlineBooking"`
}

func (s *Store) parse(raw []byte) domain.BookingPolicy {
	policy := domain.DefaultBookingPolicy()

	var stored storedPolicy
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Error("GetPolicy: malformed booking policy, using defaults: %v", err)
		return policy
	}

	policy.MaxAdvanceDays = s.nonNegative("maxAdvanceDays", stored.MaxAdvanceDays, policy.MaxAdvanceDays)
	policy.MinAdvanceHours = s.nonNegative("minAdvanceHours", stored.MinAdvanceHours, policy.MinAdvanceHours)
	policy.CancellationHours = s.nonNegative("cancellationHours", stored.CancellationHours, policy.CancellationHours)
	if stored.AllowOnlineBooking != nil {
		policy.AllowOnlineBooking = *stored.AllowOnlineBooking
	}

	return policy
}

func (s *Store) nonNegative(field string, value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	if *value < 0 {
		s.logger.Warn("GetPolicy: %s=%d is negative, using default %d", field, *value, fallback)
		return fallback
	}
	return *value
}

func (s *Store) fromCache(ctx context.Context) (domain.BookingPolicy, bool) {
	if s.cache == nil {
		return domain.BookingPolicy{}, false
	}

	data, err := s.cache.Get(ctx, CacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		s.observe("miss")
		return domain.BookingPolicy{}, false
	}
	if err != nil {
		s.observe("error")
		s.logger.Warn("GetPolicy: cache unavailable: %v", err)
		return domain.BookingPolicy{}, false
	}

	var policy domain.BookingPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		s.observe("error")
		s.logger.Warn("GetPolicy: corrupted cache entry: %v", err)
		return domain.BookingPolicy{}, false
	}

	s.observe("hit")
	return policy, true
}

func (s *Store) toCache(ctx context.Context, policy domain.BookingPolicy) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(policy)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("GetPolicy: failed to cache policy: %v", err)
	}
}

func (s *Store) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObservePolicyCache(result)
	}
}

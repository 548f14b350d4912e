package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimKeyPrefix = "reminder:claim:"

// RedisClaimer захватывает отправку напоминания через SET NX EX
type RedisClaimer struct {
	client redis.Cmdable
	ttl    time.Duration
	owner  string
}

// NewRedisClaimer создает claimer. owner пишется в значение ключа для диагностики
func NewRedisClaimer(client redis.Cmdable, ttl time.Duration, owner string) *RedisClaimer {
	return &RedisClaimer{client: client, ttl: ttl, owner: owner}
}

// Claim возвращает true, если захват получен этим процессом
func (c *RedisClaimer) Claim(ctx context.Context, bookingID int64) (bool, error) {
	ok, err := c.client.SetNX(ctx, claimKey(bookingID), c.owner, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Claim - setnx: %v", ErrInternal, err)
	}
	return ok, nil
}

// Release снимает захват
func (c *RedisClaimer) Release(ctx context.Context, bookingID int64) error {
	if err := c.client.Del(ctx, claimKey(bookingID)).Err(); err != nil {
		return fmt.Errorf("%w: Release - del: %v", ErrInternal, err)
	}
	return nil
}

func claimKey(bookingID int64) string {
	return fmt.Sprintf("%s%d", claimKeyPrefix, bookingID)
}

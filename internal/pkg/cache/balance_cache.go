package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IBalanceCache is the fast-path read cache in front of the authoritative
// credit ledger. It is advisory only: a miss or error falls through to the
// database, and every ledger write invalidates the cached value.
type IBalanceCache interface {
	Get(ctx context.Context, userId uuid.UUID) (int64, bool)
	Set(ctx context.Context, userId uuid.UUID, balance int64)
	Invalidate(ctx context.Context, userId uuid.UUID)
}

const balanceTTL = 5 * time.Minute

type RedisBalanceCache struct {
	rdb *redis.Client
}

func NewRedisBalanceCache(rdb *redis.Client) IBalanceCache {
	return &RedisBalanceCache{rdb: rdb}
}

func balanceKey(userId uuid.UUID) string {
	return fmt.Sprintf("credit_balance:%s", userId)
}

func (c *RedisBalanceCache) Get(ctx context.Context, userId uuid.UUID) (int64, bool) {
	val, err := c.rdb.Get(ctx, balanceKey(userId)).Result()
	if err != nil {
		return 0, false
	}
	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return balance, true
}

func (c *RedisBalanceCache) Set(ctx context.Context, userId uuid.UUID, balance int64) {
	c.rdb.Set(ctx, balanceKey(userId), strconv.FormatInt(balance, 10), balanceTTL)
}

func (c *RedisBalanceCache) Invalidate(ctx context.Context, userId uuid.UUID) {
	c.rdb.Del(ctx, balanceKey(userId))
}

// NoopBalanceCache is used when Redis is unavailable; every read falls
// through to the database.
type NoopBalanceCache struct{}

func (NoopBalanceCache) Get(ctx context.Context, userId uuid.UUID) (int64, bool) { return 0, false }
func (NoopBalanceCache) Set(ctx context.Context, userId uuid.UUID, balance int64) {}
func (NoopBalanceCache) Invalidate(ctx context.Context, userId uuid.UUID)         {}

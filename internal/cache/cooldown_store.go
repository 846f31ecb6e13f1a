package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CooldownStore 以 Redis 键保存低库存告警的最近发送时间
// 键的过期时间等于写入时的冷却窗口，过期即视为没有记录
type CooldownStore struct {
	client *redis.Client
}

// NewCooldownStore 创建 Redis 冷却存储
func NewCooldownStore(client *redis.Client) *CooldownStore {
	return &CooldownStore{client: client}
}

func cooldownKey(vendorID, productID uint) string {
	return BuildKey(fmt.Sprintf("low_stock:alert:%d:%d", vendorID, productID))
}

// LastAlertedAt 返回最近一次告警时间，没有记录时 ok=false
func (s *CooldownStore) LastAlertedAt(ctx context.Context, vendorID, productID uint) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, cooldownKey(vendorID, productID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse cooldown value %q: %w", raw, err)
	}
	return time.Unix(0, nanos), true, nil
}

// SaveAlertedAt 写入最近一次告警时间，ttl<=0 时按 24 小时过期
func (s *CooldownStore) SaveAlertedAt(ctx context.Context, vendorID, productID uint, at time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return s.client.Set(ctx, cooldownKey(vendorID, productID), strconv.FormatInt(at.UnixNano(), 10), ttl).Err()
}

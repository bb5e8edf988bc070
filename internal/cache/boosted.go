package cache

import (
	"context"
	"fmt"
	"time"

	"relax_backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const boostedTTL = 5 * time.Minute

// BoostedCache кэширует в redis множество ID сущностей с действующим
// VIP-размещением. Короткий TTL страхует от пропущенной инвалидации:
// ленивое истечение VIP все равно проверяется по expires_at на чтении.
type BoostedCache struct {
	client *redis.Client
}

func NewBoostedCache(client *redis.Client) *BoostedCache {
	return &BoostedCache{client: client}
}

func boostedKey(tier models.VIPTier) string {
	return fmt.Sprintf("vip:boosted:%s", tier)
}

// Get возвращает закэшированные ID и признак попадания в кэш.
// Любая ошибка redis трактуется как промах.
func (c *BoostedCache) Get(ctx context.Context, tier models.VIPTier) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	ids, err := c.client.SMembers(ctx, boostedKey(tier)).Result()
	if err != nil || len(ids) == 0 {
		return nil, false
	}
	// Сторожевой элемент отличает "пустое множество" от промаха
	out := ids[:0]
	for _, id := range ids {
		if id != "-" {
			out = append(out, id)
		}
	}
	return out, true
}

// Set сохраняет множество ID с TTL
func (c *BoostedCache) Set(ctx context.Context, tier models.VIPTier, ids []string) {
	if c == nil || c.client == nil {
		return
	}
	key := boostedKey(tier)
	members := make([]interface{}, 0, len(ids)+1)
	members = append(members, "-")
	for _, id := range ids {
		members = append(members, id)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, boostedTTL)
	_, _ = pipe.Exec(ctx)
}

// Invalidate сбрасывает кэш после активации или отмены VIP
func (c *BoostedCache) Invalidate(ctx context.Context, tier models.VIPTier) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, boostedKey(tier)).Err()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "Social/internal/domain"
	"Social/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	keyAll     = "message:list"
	keyAccount = "message:account:"
	keyGen     = "message:gen"
)

// ErrStale is returned by the setters when a write invalidated the cache
// after the caller read the generation. Nothing is stored.
var ErrStale = errors.New("message cache: generation changed")

// MessageCache caches the full message list and per-account lists in Redis.
//
// Every write bumps a generation counter. Lists are stored only if the
// generation the caller read before loading is still current, so a load
// that overlaps a write cannot put its snapshot back.
type MessageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMessageCache returns a new MessageCache.
func NewMessageCache(rdb *redis.Client, ttl time.Duration) *MessageCache {
	return &MessageCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current invalidation generation (0 before the
// first write).
func (c *MessageCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGen).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetAll returns the cached full list, or nil on a miss.
func (c *MessageCache) GetAll(ctx context.Context) ([]dom.Message, error) {
	return c.get(ctx, keyAll)
}

// SetAll stores the full list loaded under generation gen.
func (c *MessageCache) SetAll(ctx context.Context, gen int64, list []dom.Message) error {
	return c.set(ctx, keyAll, gen, list)
}

// GetByAccount returns the cached list for one author, or nil on a miss.
func (c *MessageCache) GetByAccount(ctx context.Context, accountID int64) ([]dom.Message, error) {
	return c.get(ctx, accountKey(accountID))
}

// SetByAccount stores the list for one author loaded under generation gen.
func (c *MessageCache) SetByAccount(ctx context.Context, accountID, gen int64, list []dom.Message) error {
	return c.set(ctx, accountKey(accountID), gen, list)
}

// InvalidateAll bumps the generation, then removes the full list and every
// per-account list.
func (c *MessageCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, keyGen).Err(); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, keyAll).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keyAccount+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *MessageCache) get(ctx context.Context, key string) ([]dom.Message, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]dom.Message, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	metrics.CacheHit()
	return list, nil
}

func (c *MessageCache) set(ctx context.Context, key string, gen int64, list []dom.Message) error {
	if list == nil {
		list = []dom.Message{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, keyGen).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, keyGen)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

func accountKey(accountID int64) string {
	return keyAccount + strconv.FormatInt(accountID, 10)
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cachePrefix = "catalogo:"

// CachedStore is a read-through redis cache for component documents. Product
// documents always bypass it: their structure and reverse index must be read
// fresh before any mutation. Cache errors are logged and never fail a call.
// A fill can race a delete and outlive it until the TTL expires; callers
// that must not see that use FreshRead.
type CachedStore struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedStore wraps next. A nil client disables caching.
func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedStore{next: next, rdb: rdb, ttl: ttl}
}

func cacheable(coll model.Collection) bool {
	return coll == model.CollSemiterminados || coll == model.CollInsumos
}

func cacheKey(coll model.Collection, id string) string {
	return cachePrefix + string(coll) + ":" + id
}

// Get serves from the cache when possible. Reads marked with FreshRead go to
// the wrapped store and leave the cache untouched, so a delete racing the
// fill cannot hand them a document that is already gone.
func (c *CachedStore) Get(ctx context.Context, coll model.Collection, id string, dst any) error {
	if c.rdb == nil || !cacheable(coll) || IsFreshRead(ctx) {
		return c.next.Get(ctx, coll, id, dst)
	}

	key := cacheKey(coll, id)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		if jerr := json.Unmarshal(raw, dst); jerr == nil {
			stampID(dst, id)
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("cache: read failed")
	}

	if err := c.next.Get(ctx, coll, id, dst); err != nil {
		return err
	}
	if data, err := json.Marshal(dst); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache: write failed")
		}
	}
	return nil
}

func (c *CachedStore) QueryReverseIndex(ctx context.Context, q ReverseQuery) ([]string, error) {
	return c.next.QueryReverseIndex(ctx, q)
}

func (c *CachedStore) Delete(ctx context.Context, coll model.Collection, id string) error {
	if err := c.next.Delete(ctx, coll, id); err != nil {
		return err
	}
	c.invalidate(ctx, coll, id)
	return nil
}

func (c *CachedStore) CreateIfAbsent(ctx context.Context, coll model.Collection, id string, rec any) error {
	if err := c.next.CreateIfAbsent(ctx, coll, id, rec); err != nil {
		return err
	}
	c.invalidate(ctx, coll, id)
	return nil
}

func (c *CachedStore) Write(ctx context.Context, coll model.Collection, id string, rec any, merge bool) error {
	if err := c.next.Write(ctx, coll, id, rec, merge); err != nil {
		return err
	}
	c.invalidate(ctx, coll, id)
	return nil
}

// Ping checks the wrapped store; redis health is reported separately.
func (c *CachedStore) Ping(ctx context.Context) error {
	if p, ok := c.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context, coll model.Collection, id string) {
	if c.rdb == nil || !cacheable(coll) {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey(coll, id)).Err(); err != nil {
		log.Warn().Err(err).Str("key", cacheKey(coll, id)).Msg("cache: invalidation failed")
	}
}

var _ Store = (*CachedStore)(nil)

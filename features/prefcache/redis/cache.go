// Package redis provides a read-through cache over an orders.Store for
// notification preferences. Order details are passed through uncached: they
// are read once per workflow, while preferences are re-read on every
// notification retry and across workflows for the same user or vendor.
//
// Cache failures never fail a read; the cache degrades to the underlying
// store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"goa.design/clue/log"

	"github.com/dishpatch/dishpatch/orders"
)

type (
	// Client is the subset of the go-redis API used by the cache. Satisfied
	// by *redis.Client.
	Client interface {
		Get(ctx context.Context, key string) *goredis.StringCmd
		Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	}

	// Options configures the cache.
	Options struct {
		// Client is the Redis connection. Required.
		Client Client
		// Store is the authoritative preference source. Required.
		Store orders.Store
		// TTL bounds how long cached preferences are served. Zero uses
		// DefaultTTL.
		TTL time.Duration
		// KeyPrefix namespaces the cache keys. Defaults to "prefs".
		KeyPrefix string
	}

	// Cache implements orders.Store with Redis-cached preference reads.
	Cache struct {
		store  orders.Store
		redis  Client
		ttl    time.Duration
		prefix string
	}
)

// DefaultTTL is the preference cache entry lifetime when Options.TTL is zero.
const DefaultTTL = 10 * time.Minute

// New builds a preference cache over the given store.
func New(opts Options) (*Cache, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "prefs"
	}
	return &Cache{
		store:  opts.Store,
		redis:  opts.Client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

// OrderDetails delegates to the underlying store.
func (c *Cache) OrderDetails(ctx context.Context, orderID string) (orders.OrderDetails, error) {
	return c.store.OrderDetails(ctx, orderID)
}

// UserPreference returns the cached preference when present, reading through
// to the store otherwise.
func (c *Cache) UserPreference(ctx context.Context, orderID string) (orders.UserPreference, error) {
	key := c.key("user", orderID)
	var cached orders.UserPreference
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}
	pref, err := c.store.UserPreference(ctx, orderID)
	if err != nil {
		return orders.UserPreference{}, err
	}
	c.put(ctx, key, pref)
	return pref, nil
}

// VendorPreference returns the cached preference when present, reading
// through to the store otherwise.
func (c *Cache) VendorPreference(ctx context.Context, orderID string) (orders.VendorPreference, error) {
	key := c.key("vendor", orderID)
	var cached orders.VendorPreference
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}
	pref, err := c.store.VendorPreference(ctx, orderID)
	if err != nil {
		return orders.VendorPreference{}, err
	}
	c.put(ctx, key, pref)
	return pref, nil
}

func (c *Cache) key(kind, orderID string) string {
	return c.prefix + ":" + kind + ":" + orderID
}

// lookup reports whether key held a decodable entry. Connection errors and
// corrupt entries count as misses.
func (c *Cache) lookup(ctx context.Context, key string, out any) bool {
	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return false
	case err != nil:
		log.Debug(ctx, log.KV{K: "msg", V: "preference cache read failed"}, log.KV{K: "key", V: key}, log.KV{K: "err", V: err})
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Debug(ctx, log.KV{K: "msg", V: "preference cache entry corrupt"}, log.KV{K: "key", V: key}, log.KV{K: "err", V: err})
		return false
	}
	return true
}

func (c *Cache) put(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Debug(ctx, log.KV{K: "msg", V: "preference cache write failed"}, log.KV{K: "key", V: key}, log.KV{K: "err", V: err})
	}
}

package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

// CachedRepository serves Get from Redis and falls through to the wrapped
// repository on a miss. Admin mutations invalidate the cached entry.
// Redis errors never fail a read; an open breaker skips Redis entirely.
type CachedRepository struct {
	next    Repository
	rdb     *redis.Client
	cb      *gobreaker.CircuitBreaker
	sf      singleflight.Group
	baseTTL time.Duration
	log     logrus.FieldLogger
}

func NewCachedRepository(next Repository, rdb *redis.Client, baseTTL time.Duration, log logrus.FieldLogger) *CachedRepository {
	if baseTTL <= 0 {
		baseTTL = 10 * time.Minute
	}
	log = log.WithField("component", "product-cache")

	st := gobreaker.Settings{
		Name:        "product-cache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("circuit breaker %s changed from %s to %s", name, from, to)
		},
	}

	return &CachedRepository{
		next:    next,
		rdb:     rdb,
		cb:      gobreaker.NewCircuitBreaker(st),
		baseTTL: baseTTL,
		log:     log,
	}
}

func (c *CachedRepository) List(ctx context.Context, category *Category) ([]Product, error) {
	return c.next.List(ctx, category)
}

func (c *CachedRepository) ListAll(ctx context.Context) ([]Product, error) {
	return c.next.ListAll(ctx)
}

func (c *CachedRepository) Get(ctx context.Context, id string) (Product, error) {
	key := cacheKey(id)

	val, err := c.cb.Execute(func() (interface{}, error) {
		res, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		c.log.WithError(err).WithField("productId", id).Warn("cache read skipped")
	}
	if data, ok := val.([]byte); ok && data != nil {
		var p Product
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		c.log.WithField("productId", id).Error("unreadable cache entry")
	}

	res, err, _ := c.sf.Do(key, func() (interface{}, error) {
		p, err := c.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return Product{}, err
	}
	return res.(Product), nil
}

func (c *CachedRepository) Create(ctx context.Context, np NewProduct) (Product, error) {
	return c.next.Create(ctx, np)
}

func (c *CachedRepository) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	p, err := c.next.Update(ctx, id, patch)
	if err != nil {
		return Product{}, err
	}
	c.invalidate(ctx, id)
	return p, nil
}

func (c *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedRepository) store(ctx context.Context, key string, p Product) {
	data, err := json.Marshal(p)
	if err != nil {
		c.log.WithError(err).Error("marshal product for cache")
		return
	}
	jitter := time.Duration(rand.Intn(60)) * time.Second
	_, err = c.cb.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key, data, c.baseTTL+jitter).Err()
	})
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (c *CachedRepository) invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.WithError(err).WithField("productId", id).Warn("cache invalidate failed")
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

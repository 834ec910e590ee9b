package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// queryCache backs the cache-first policy: a bounded TTL cache of raw root
// field values, with concurrent misses for the same key collapsed into one fetch.
type queryCache struct {
	entries *expirable.LRU[string, json.RawMessage]
	group   singleflight.Group
}

func newQueryCache(size int, ttl time.Duration) *queryCache {
	if size <= 0 {
		size = 256
	}
	return &queryCache{entries: expirable.NewLRU[string, json.RawMessage](size, nil, ttl)}
}

// cacheKey identifies a query by name and variables. encoding/json sorts map
// keys, so equal variable sets produce equal keys.
func cacheKey(op Operation, vars Variables) string {
	if len(vars) == 0 {
		return op.Name
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return ""
	}
	return op.Name + ":" + string(raw)
}

func (c *queryCache) get(key string) (json.RawMessage, bool) {
	return c.entries.Get(key)
}

// load returns the cached value or runs fetch once for all concurrent callers.
// A caller whose ctx ends stops waiting; the fetch carries on for the rest.
// shared reports whether the value came from another caller's fetch.
func (c *queryCache) load(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, bool, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		raw, err := fetch()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, raw)
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(json.RawMessage), res.Shared, nil
	}
}

func (c *queryCache) purge() {
	c.entries.Purge()
}

func (c *queryCache) len() int {
	return c.entries.Len()
}

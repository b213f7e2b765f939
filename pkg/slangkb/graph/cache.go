package graph

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	identity string
	cfg      Config
}

// Cache memoizes Sparsify results by raw data identity and Config. The
// identity names the raw graph, e.g. a file path plus version; callers
// that cannot name the data can use Fingerprint.
type Cache struct {
	lru *lru.Cache[cacheKey, Result]
}

// NewCache creates a cache holding at most size results.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[cacheKey, Result](size)
	if err != nil {
		return nil, fmt.Errorf("graph cache: %w", err)
	}
	return &Cache{lru: c}, nil
}

// Sparsify returns the cached result for (identity, cfg), computing it on a
// miss. An empty identity bypasses the cache.
func (c *Cache) Sparsify(identity string, nodes []RawNode, links []RawLink, cfg Config) Result {
	if identity == "" {
		return Sparsify(nodes, links, cfg)
	}
	key := cacheKey{identity: identity, cfg: cfg}
	if res, ok := c.lru.Get(key); ok {
		return res.clone()
	}
	res := Sparsify(nodes, links, cfg)
	c.lru.Add(key, res)
	return res.clone()
}

// Len reports the number of cached results.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func (r Result) clone() Result {
	out := Result{
		Nodes: make([]Node, len(r.Nodes)),
		Links: make([]Link, len(r.Links)),
		Force: r.Force,
	}
	copy(out.Nodes, r.Nodes)
	copy(out.Links, r.Links)
	return out
}

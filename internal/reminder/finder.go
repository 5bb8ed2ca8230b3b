package reminder

import (
	"context"
	"time"

	"github.com/mari8i/remind-me-the-hard-way/internal/cache"
	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// closestKey is the single entry of the conference cache.
type closestKey struct{}

// CachedFinder memoizes a Finder for a fixed TTL. Both a conference and
// "no conference" are cached; errors never are.
type CachedFinder struct {
	finder Finder
	cache  *cache.TTL[closestKey, *Conference]
	ttl    time.Duration
}

var _ Finder = (*CachedFinder)(nil)

func NewCachedFinder(finder Finder, ttl time.Duration, now cache.Clock) *CachedFinder {
	return &CachedFinder{
		finder: finder,
		cache:  cache.New[closestKey, *Conference](now),
		ttl:    ttl,
	}
}

func (c *CachedFinder) FindClosestConference(ctx context.Context) (*Conference, error) {
	if conf, ok := c.cache.Get(closestKey{}); ok {
		logger.Debug("closest conference served from cache")
		return conf, nil
	}

	conf, err := c.finder.FindClosestConference(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Put(closestKey{}, conf, c.ttl)
	return conf, nil
}

package cache

import (
	"context"
	"time"
)

// TTL memoizes the result of fetch for a fixed duration. With CacheErrors
// set, a failed fetch is memoized too. Not safe for concurrent use.
type TTL[T any] struct {
	ttl         time.Duration
	fetch       func(ctx context.Context) (T, error)
	now         func() time.Time
	CacheErrors bool

	valid bool
	at    time.Time
	value T
	err   error
}

func NewTTL[T any](ttl time.Duration, fetch func(ctx context.Context) (T, error)) *TTL[T] {
	return &TTL[T]{
		ttl:   ttl,
		fetch: fetch,
		now:   time.Now,
	}
}

// Get returns the memoized result while it is younger than the TTL, and
// calls fetch otherwise.
func (c *TTL[T]) Get(ctx context.Context) (T, error) {
	now := c.now()
	if c.valid && now.Sub(c.at) < c.ttl {
		return c.value, c.err
	}
	value, err := c.fetch(ctx)
	if err != nil && !c.CacheErrors {
		c.valid = false
		return value, err
	}
	c.valid = true
	c.at = now
	c.value = value
	c.err = err
	return value, err
}

// Age is the time since the memoized result was fetched.
func (c *TTL[T]) Age() (time.Duration, bool) {
	if !c.valid {
		return 0, false
	}
	return c.now().Sub(c.at), true
}

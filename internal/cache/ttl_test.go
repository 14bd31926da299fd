package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time {
	return f.t
}

func counting(results ...error) (func(context.Context) (int, error), *int) {
	calls := 0
	return func(context.Context) (int, error) {
		calls++
		var err error
		if len(results) >= calls {
			err = results[calls-1]
		}
		return calls, err
	}, &calls
}

func TestTTLReturnsMemoizedValue(t *testing.T) {

	assert := assert.New(t)

	clock := &fakeTime{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	fetch, calls := counting()
	c := NewTTL(time.Hour, fetch)
	c.now = clock.now

	v, err := c.Get(context.Background())
	assert.NoError(err)
	assert.Equal(1, v)

	clock.t = clock.t.Add(59 * time.Minute)
	v, _ = c.Get(context.Background())
	assert.Equal(1, v)
	assert.Equal(1, *calls, "one outbound call within ttl")

	age, ok := c.Age()
	assert.True(ok)
	assert.Equal(59*time.Minute, age)

	clock.t = clock.t.Add(time.Minute)
	v, _ = c.Get(context.Background())
	assert.Equal(2, v)
	assert.Equal(2, *calls, "new call after expiry")
}

func TestTTLCachesErrorsWhenEnabled(t *testing.T) {

	assert := assert.New(t)

	limited := errors.New("rate limited")
	clock := &fakeTime{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	fetch, calls := counting(limited)
	c := NewTTL(time.Hour, fetch)
	c.now = clock.now
	c.CacheErrors = true

	_, err := c.Get(context.Background())
	assert.ErrorIs(err, limited)
	_, err = c.Get(context.Background())
	assert.ErrorIs(err, limited)
	assert.Equal(1, *calls)
}

func TestTTLRetriesErrorsByDefault(t *testing.T) {

	assert := assert.New(t)

	fetch, calls := counting(errors.New("boom"))
	c := NewTTL(time.Hour, fetch)

	_, err := c.Get(context.Background())
	assert.Error(err)
	v, err := c.Get(context.Background())
	assert.NoError(err)
	assert.Equal(2, v)
	assert.Equal(2, *calls)
}

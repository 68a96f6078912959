// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package cache

import (
	"sync"
	"time"
)

// LoadValueFunc computes the value held by a Value cache. It may hit the
// database; failures propagate to the caller of Get.
type LoadValueFunc[T any] func() (T, error)

// Value is a single-value refresh cache: one computed value, a loader and
// a TTL. The value is recomputed lazily by the first Get that observes
// staleness. Concurrent readers during a reload observe either the old or
// the new value, never a partial one.
type Value[T any] struct {
	mutex    sync.Mutex
	load     LoadValueFunc[T]
	ttl      time.Duration
	value    T
	loaded   bool
	loadedAt time.Time
	now      func() time.Time
}

func NewValue[T any](ttl time.Duration, load LoadValueFunc[T]) *Value[T] {
	return &Value[T]{
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the cached value, reloading it first when the TTL has
// elapsed since the last successful load. A failed reload keeps the
// previous value and returns the error.
func (c *Value[T]) Get() (T, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.loaded || c.now().Sub(c.loadedAt) >= c.ttl {
		value, err := c.load()
		if err != nil {
			var zero T
			return zero, err
		}
		c.value = value
		c.loaded = true
		c.loadedAt = c.now()
	}

	return c.value, nil
}

// Invalidate forces the next Get to reload unconditionally.
func (c *Value[T]) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.loaded = false
}

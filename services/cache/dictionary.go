// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

const DICTIONARY_DEFAULT_SIZE = 10000

// LoadItemFunc loads a single item by key. The second return reports
// whether the item exists at all; a definitive "not found" is cached too
// so repeated misses don't keep hitting the database.
type LoadItemFunc[V any] func(key string) (V, bool, error)

type dictionaryEntry[V any] struct {
	value V
	found bool
}

// Dictionary is a keyed refresh cache for items that are independently
// expensive to load and lazily demanded. Entries are bounded by an LRU,
// never by a TTL; write paths invalidate explicitly.
type Dictionary[V any] struct {
	lru  *lru.Cache
	load LoadItemFunc[V]
}

func NewDictionary[V any](size int, load LoadItemFunc[V]) *Dictionary[V] {
	if size <= 0 {
		size = DICTIONARY_DEFAULT_SIZE
	}
	backing, _ := lru.New(size)
	return &Dictionary[V]{
		lru:  backing,
		load: load,
	}
}

// GetItem returns the cached value for key, loading and caching it on a
// miss. The bool reports existence; a cached "not found" short-circuits
// without a loader call.
func (c *Dictionary[V]) GetItem(key string) (V, bool, error) {
	if item, ok := c.lru.Get(key); ok {
		entry := item.(dictionaryEntry[V])
		return entry.value, entry.found, nil
	}

	value, found, err := c.load(key)
	if err != nil {
		var zero V
		return zero, false, err
	}

	c.lru.Add(key, dictionaryEntry[V]{value: value, found: found})
	return value, found, nil
}

func (c *Dictionary[V]) Invalidate(key string) {
	c.lru.Remove(key)
}

func (c *Dictionary[V]) InvalidateAll() {
	c.lru.Purge()
}

func (c *Dictionary[V]) Len() int {
	return c.lru.Len()
}

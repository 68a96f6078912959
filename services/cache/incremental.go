// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package cache

import (
	"sort"
	"sync"
	"time"
)

// ChangeRecord is one store-side change: a value, the store-clock time it
// changed, and whether the change was a deletion (tombstone).
type ChangeRecord[V any] struct {
	Value      V
	ChangeTime int64
	IsRemoved  bool
}

// FullLoadFunc loads the complete current state plus the store clock
// captured by the same query.
type FullLoadFunc[K comparable, V any] func() (map[K]ChangeRecord[V], int64, error)

// DeltaLoadFunc loads the records changed strictly after since, plus the
// store clock captured by the same query. The boundary is exclusive: a
// record with ChangeTime == since must not be re-returned.
type DeltaLoadFunc[V any] func(since int64) ([]ChangeRecord[V], int64, error)

// Incremental keeps a keyed snapshot of "current state" fresh against the
// store with changed-since queries instead of full reloads, and answers
// both "everything right now" and "what changed since T" from it.
//
// All timestamps that cross the store boundary (ChangeTime, the delta
// low-water mark) are store-clock values; web-farm nodes have skewed
// local clocks, so only the TTL staleness check uses local time.
type Incremental[K comparable, V any] struct {
	name  string
	full  FullLoadFunc[K, V]
	delta DeltaLoadFunc[V]
	keyOf func(V) K
	ttl   time.Duration

	mutex       sync.Mutex
	records     map[K]ChangeRecord[V]
	lastChange  int64 // high-water mark: newest ChangeTime ever merged
	refreshMark int64 // store clock at last refresh, the next delta's since
	refreshedAt time.Time
	loaded      bool
	now         func() time.Time
}

func NewIncremental[K comparable, V any](name string, ttl time.Duration, keyOf func(V) K, full FullLoadFunc[K, V], delta DeltaLoadFunc[V]) *Incremental[K, V] {
	return &Incremental[K, V]{
		name:  name,
		full:  full,
		delta: delta,
		keyOf: keyOf,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *Incremental[K, V]) Name() string {
	return c.name
}

// GetCurrentState returns a copy of the live (non-tombstoned) state and
// the high-water mark, refreshing first if the TTL has elapsed.
func (c *Incremental[K, V]) GetCurrentState() (map[K]V, int64, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.refreshIfNeeded(); err != nil {
		return nil, 0, err
	}

	state := make(map[K]V, len(c.records))
	for key, record := range c.records {
		if !record.IsRemoved {
			state[key] = record.Value
		}
	}
	return state, c.lastChange, nil
}

// GetLatestData returns the records changed strictly after since, oldest
// first. The bool distinguishes "nothing changed" from an empty set, so a
// long-poll handler can skip responding entirely. Tombstones newer than
// since are included so a client syncing forward learns about deletions.
func (c *Incremental[K, V]) GetLatestData(since int64) ([]ChangeRecord[V], int64, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.refreshIfNeeded(); err != nil {
		return nil, 0, false, err
	}

	if since >= c.lastChange {
		return nil, c.lastChange, false, nil
	}

	changed := []ChangeRecord[V]{}
	for _, record := range c.records {
		if record.ChangeTime > since {
			changed = append(changed, record)
		}
	}

	if len(changed) == 0 {
		return nil, c.lastChange, false, nil
	}

	sort.Slice(changed, func(i, j int) bool {
		return changed[i].ChangeTime < changed[j].ChangeTime
	})
	return changed, c.lastChange, true, nil
}

// GetItem looks key up in the current snapshot after the usual staleness
// check. A miss is an ordinary answer here; use ForceGetItem when a miss
// must be double-checked against the store.
func (c *Incremental[K, V]) GetItem(key K) (V, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	if err := c.refreshIfNeeded(); err != nil {
		return zero, false, err
	}

	if record, ok := c.records[key]; ok && !record.IsRemoved {
		return record.Value, true, nil
	}
	return zero, false, nil
}

// ForceGetItem looks key up in the current snapshot and, on a miss,
// forces an unconditional refresh before looking once more. This covers
// an item created after the last periodic refresh but urgently needed.
func (c *Incremental[K, V]) ForceGetItem(key K) (V, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	if err := c.refreshIfNeeded(); err != nil {
		return zero, false, err
	}

	if record, ok := c.records[key]; ok && !record.IsRemoved {
		return record.Value, true, nil
	}

	if err := c.refresh(); err != nil {
		return zero, false, err
	}

	if record, ok := c.records[key]; ok && !record.IsRemoved {
		return record.Value, true, nil
	}
	return zero, false, nil
}

// InvalidateCurrentState drops the snapshot so the next access does a
// full load again. Used after a local write the delta poll would
// otherwise pick up too slowly.
func (c *Incremental[K, V]) InvalidateCurrentState() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.loaded = false
}

// LastChange returns the high-water mark without refreshing.
func (c *Incremental[K, V]) LastChange() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lastChange
}

// refreshIfNeeded must be called with the mutex held.
func (c *Incremental[K, V]) refreshIfNeeded() error {
	if !c.loaded {
		records, storeNow, err := c.full()
		if err != nil {
			return err
		}

		c.records = records
		c.lastChange = 0
		for _, record := range records {
			if record.ChangeTime > c.lastChange {
				c.lastChange = record.ChangeTime
			}
		}
		c.refreshMark = storeNow
		c.refreshedAt = c.now()
		c.loaded = true
		return nil
	}

	if c.now().Sub(c.refreshedAt) < c.ttl {
		return nil
	}
	return c.refresh()
}

// refresh merges one delta fetch into the snapshot. It must be called
// with the mutex held and commits nothing on a failed fetch, so a store
// outage leaves the previous (stale but valid) snapshot intact.
func (c *Incremental[K, V]) refresh() error {
	changed, storeNow, err := c.delta(c.refreshMark)
	if err != nil {
		return err
	}

	for _, record := range changed {
		c.records[c.keyOf(record.Value)] = record
		if record.ChangeTime > c.lastChange {
			c.lastChange = record.ChangeTime
		}
	}
	if storeNow > c.refreshMark {
		c.refreshMark = storeNow
	}
	c.refreshedAt = c.now()
	return nil
}

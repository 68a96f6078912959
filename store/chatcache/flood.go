// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"sync"
	"time"

	"github.com/sitechat/server/v5/einterfaces"
)

type floodKey struct {
	userId    string
	operation string
}

// FloodProtector throttles per-user operations against a configured
// minimum interval. State is purely local, so it works only in a
// one-server solution; each web-farm node throttles independently.
type FloodProtector struct {
	mutex    sync.Mutex
	last     map[floodKey]time.Time
	interval func(operation string) float64
	metrics  einterfaces.MetricsInterface
	now      func() time.Time
}

func NewFloodProtector(interval func(operation string) float64, metrics einterfaces.MetricsInterface) *FloodProtector {
	return &FloodProtector{
		last:     make(map[floodKey]time.Time),
		interval: interval,
		metrics:  metrics,
		now:      time.Now,
	}
}

// CheckOperation reports whether the operation is allowed for the user
// right now. The last-attempt time is written on every call, allowed or
// not, so a burst of rejected calls keeps the window closed until the
// caller pauses for the full interval. Keep it that way: flipping this
// to "reset only on success" changes the externally observable
// throttling, and TestFloodProtectorWindowResetsOnRejectedCalls pins it.
func (f *FloodProtector) CheckOperation(userId string, operation string) bool {
	interval := f.interval(operation)
	if interval <= 0 {
		return true
	}

	key := floodKey{userId: userId, operation: operation}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	now := f.now()
	last, seen := f.last[key]
	f.last[key] = now

	if !seen {
		return true
	}

	allowed := now.Sub(last) >= time.Duration(interval*float64(time.Second))
	if !allowed && f.metrics != nil {
		f.metrics.IncrementFloodRejectedCounter(operation)
	}
	return allowed
}

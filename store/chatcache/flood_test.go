// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sitechat/server/v5/model"
)

func testFloodIntervals(t *testing.T) func(string) float64 {
	config := &model.Config{}
	config.SetDefaults()
	*config.FloodSettings.MessageIntervalSeconds = 5
	return config.FloodSettings.IntervalSeconds
}

func TestFloodProtectorAllowsFirstCall(t *testing.T) {
	clock := newTestClock()
	f := NewFloodProtector(testFloodIntervals(t), nil)
	f.now = clock.Now

	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))
	assert.False(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))
}

func TestFloodProtectorIndependentKeys(t *testing.T) {
	clock := newTestClock()
	f := NewFloodProtector(testFloodIntervals(t), nil)
	f.now = clock.Now

	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))
	assert.True(t, f.CheckOperation("user2", model.FLOOD_OP_MESSAGE))
	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_JOIN_ROOM))
}

// The window is measured from the most recent attempt, not the most
// recent success: even a rejected call resets it. This semantic is
// externally observable and deliberate; do not flip it to
// "reset only on success" without a product decision.
func TestFloodProtectorWindowResetsOnRejectedCalls(t *testing.T) {
	clock := newTestClock()
	f := NewFloodProtector(testFloodIntervals(t), nil)
	f.now = clock.Now

	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))

	clock.Advance(3 * time.Second)
	assert.False(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))

	// 5s after the first call, but only 2s after the rejected second
	// one: still throttled.
	clock.Advance(2 * time.Second)
	assert.False(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))

	// A full interval after the last (rejected) attempt: allowed.
	clock.Advance(5 * time.Second)
	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))
}

func TestFloodProtectorDisabledOperation(t *testing.T) {
	clock := newTestClock()
	config := &model.Config{}
	config.SetDefaults()
	*config.FloodSettings.MessageIntervalSeconds = 0

	f := NewFloodProtector(config.FloodSettings.IntervalSeconds, nil)
	f.now = clock.Now

	// Interval <= 0 disables protection, as does an unknown operation.
	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))
	assert.True(t, f.CheckOperation("user1", model.FLOOD_OP_MESSAGE))
	assert.True(t, f.CheckOperation("user1", "unknown_operation"))
	assert.True(t, f.CheckOperation("user1", "unknown_operation"))
}

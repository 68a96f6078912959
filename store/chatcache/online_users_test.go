// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/server/v5/model"
)

func testOnlineUser(userId, nickname string, changeTime int64) *model.OnlineUser {
	return &model.OnlineUser{
		UserId:     userId,
		SiteId:     "site1",
		Nickname:   nickname,
		ChangeTime: changeTime,
	}
}

func newTestSiteOnlineUsers(userStore *fakeOnlineUserStore, roomStore *fakeRoomStore, notificationStore *fakeNotificationStore) *SiteOnlineUsers {
	return NewSiteOnlineUsers("site1", 6*time.Second, 30*time.Second, userStore, roomStore, notificationStore, nil)
}

func userIds(users []*model.OnlineUser) []string {
	ids := []string{}
	for _, user := range users {
		ids = append(ids, user.UserId)
	}
	return ids
}

func TestSiteOnlineUsersFirstPoll(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "alice", 1000))
	userStore.put(testOnlineUser("u2", "bob", 1000))
	hidden := testOnlineUser("u3", "carol", 1000)
	hidden.IsHidden = true
	userStore.put(hidden)

	s := newTestSiteOnlineUsers(userStore, newFakeRoomStore(), newFakeNotificationStore())

	view, hasData, err := s.GetOnlineUsers(nil)
	require.Nil(t, err)
	require.True(t, hasData)
	assert.Equal(t, []string{"u1", "u2"}, userIds(view.Users))
	assert.Equal(t, int64(1000), view.LastChange)
}

func TestSiteOnlineUsersDeltaPoll(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "alice", 1000))

	s := newTestSiteOnlineUsers(userStore, newFakeRoomStore(), newFakeNotificationStore())

	_, _, err := s.GetOnlineUsers(nil)
	require.Nil(t, err)

	// Nothing changed: the handler can skip the response entirely.
	_, hasData, err := s.GetOnlineUsers(model.NewInt64(1000))
	require.Nil(t, err)
	assert.False(t, hasData)

	// u2 comes online, u1 logs out; the cache TTL is forced over by
	// invalidating, standing in for elapsed time.
	userStore.put(testOnlineUser("u2", "bob", 2000))
	userStore.Remove("site1", "u1", 2000)
	s.InvalidateOnlineUsers()

	view, hasData, err := s.GetOnlineUsers(model.NewInt64(1000))
	require.Nil(t, err)
	require.True(t, hasData)
	assert.Equal(t, []string{"u2"}, userIds(view.Users))
	assert.Equal(t, int64(2000), view.LastChange)
}

func TestSiteOnlineUsersRefreshCounted(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "alice", 1000))

	metrics := newFakeMetrics()
	s := NewSiteOnlineUsers("site1", 6*time.Second, 30*time.Second, userStore, newFakeRoomStore(), newFakeNotificationStore(), metrics)

	_, _, err := s.GetOnlineUsers(nil)
	require.Nil(t, err)
	assert.Equal(t, 1, metrics.refreshes["OnlineUsers-site1"])

	// A poll served from the fresh snapshot is not a refresh.
	_, _, err = s.GetOnlineUsers(model.NewInt64(1000))
	require.Nil(t, err)
	assert.Equal(t, 1, metrics.refreshes["OnlineUsers-site1"])

	s.InvalidateOnlineUsers()
	_, _, err = s.GetOnlineUsers(model.NewInt64(1000))
	require.Nil(t, err)
	assert.Equal(t, 2, metrics.refreshes["OnlineUsers-site1"])
}

func TestSiteOnlineUsersHiddenDeliveredAsRemoval(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "alice", 1000))

	s := newTestSiteOnlineUsers(userStore, newFakeRoomStore(), newFakeNotificationStore())
	_, _, err := s.GetOnlineUsers(nil)
	require.Nil(t, err)

	nowHidden := testOnlineUser("u1", "alice", 2000)
	nowHidden.IsHidden = true
	userStore.put(nowHidden)
	s.InvalidateOnlineUsers()

	view, hasData, err := s.GetOnlineUsers(model.NewInt64(1000))
	require.Nil(t, err)
	require.True(t, hasData)
	assert.Empty(t, view.Users)
	assert.Equal(t, []string{"u1"}, view.RemovedUserIds)
}

func TestSiteOnlineUsersSearch(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "Alice", 1000))
	userStore.put(testOnlineUser("u2", "alicia", 1000))
	userStore.put(testOnlineUser("u3", "bob", 1000))
	hidden := testOnlineUser("u4", "alick", 1000)
	hidden.IsHidden = true
	userStore.put(hidden)

	s := newTestSiteOnlineUsers(userStore, newFakeRoomStore(), newFakeNotificationStore())

	results, err := s.SearchOnlineUsers("ali", 0, "")
	require.Nil(t, err)
	assert.Equal(t, []string{"u1", "u2"}, userIds(results))

	results, err = s.SearchOnlineUsers("ali", 1, "")
	require.Nil(t, err)
	assert.Equal(t, []string{"u1"}, userIds(results))

	results, err = s.SearchOnlineUsers("", 0, "")
	require.Nil(t, err)
	assert.Len(t, results, 3)
}

func TestSiteOnlineUsersSearchInvitationEligibility(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "alice", 1000))
	userStore.put(testOnlineUser("u2", "alicia", 1000))

	roomStore := newFakeRoomStore()
	// u1 is already in the room and online, so not eligible. u9 is a
	// member too but offline (not in the snapshot), so never considered.
	roomStore.members["room1"] = []string{"u1", "u9"}

	s := newTestSiteOnlineUsers(userStore, roomStore, newFakeNotificationStore())

	results, err := s.SearchOnlineUsers("ali", 0, "room1")
	require.Nil(t, err)
	assert.Equal(t, []string{"u2"}, userIds(results))
}

func TestSiteOnlineUsersIsUserOnline(t *testing.T) {
	userStore := newFakeOnlineUserStore()
	userStore.put(testOnlineUser("u1", "alice", 1000))

	s := newTestSiteOnlineUsers(userStore, newFakeRoomStore(), newFakeNotificationStore())

	online, err := s.IsUserOnline("u1")
	require.Nil(t, err)
	assert.True(t, online)

	// A user who came online after the snapshot was taken is still
	// found: the miss forces a refresh.
	userStore.put(testOnlineUser("u2", "bob", 2000))
	online, err = s.IsUserOnline("u2")
	require.Nil(t, err)
	assert.True(t, online)

	online, err = s.IsUserOnline("u3")
	require.Nil(t, err)
	assert.False(t, online)
}

func TestSiteOnlineUsersNotificationsShortCircuit(t *testing.T) {
	notificationStore := newFakeNotificationStore()
	notificationStore.Save(&model.Notification{
		Id:         model.NewId(),
		UserId:     "u1",
		SiteId:     "site1",
		Type:       model.NOTIFICATION_TYPE_MENTION,
		ChangeTime: 2000,
	})

	s := newTestSiteOnlineUsers(newFakeOnlineUserStore(), newFakeRoomStore(), notificationStore)

	// u2 has no notifications at all: answered from the cached change
	// map, no store round-trip.
	notifications, hasData, err := s.GetNotifications("u2", 1000)
	require.Nil(t, err)
	assert.False(t, hasData)
	assert.Nil(t, notifications)
	assert.Equal(t, 0, notificationStore.changedCalls)

	// u1's newest change is not newer than since: same short circuit.
	_, hasData, err = s.GetNotifications("u1", 2000)
	require.Nil(t, err)
	assert.False(t, hasData)
	assert.Equal(t, 0, notificationStore.changedCalls)

	// Something actually new: one fetch.
	notifications, hasData, err = s.GetNotifications("u1", 1000)
	require.Nil(t, err)
	require.True(t, hasData)
	require.Len(t, notifications, 1)
	assert.Equal(t, 1, notificationStore.changedCalls)
}

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

func testInitiateRequest(id, contactId, userId, roomId string, changeTime int64) *model.InitiateRequest {
	return &model.InitiateRequest{
		Id:         id,
		SiteId:     "site1",
		ContactId:  contactId,
		UserId:     userId,
		RoomId:     roomId,
		ChangeTime: changeTime,
	}
}

func TestInitiatedChatsLookupByContactThenUser(t *testing.T) {
	requestStore := newFakeInitiateRequestStore()
	messageStore := newFakeChatMessageStore()
	requestStore.put(testInitiateRequest("r1", "contact1", "user1", "room1", 1000))

	c := NewInitiatedChats(time.Minute, requestStore, messageStore, nil)

	request, err := c.GetInitiatedChatRequest("contact1", "", nil)
	require.Nil(t, err)
	require.NotNil(t, request)
	assert.Equal(t, "r1", request.Id)

	// Unknown contact id falls back to the user-keyed index.
	request, err = c.GetInitiatedChatRequest("contact9", "user1", nil)
	require.Nil(t, err)
	require.NotNil(t, request)
	assert.Equal(t, "r1", request.Id)

	request, err = c.GetInitiatedChatRequest("contact9", "user9", nil)
	require.Nil(t, err)
	assert.Nil(t, request)
}

func TestInitiatedChatsRefreshCounted(t *testing.T) {
	requestStore := newFakeInitiateRequestStore()
	requestStore.put(testInitiateRequest("r1", "contact1", "user1", "room1", 1000))

	metrics := newFakeMetrics()
	c := NewInitiatedChats(time.Minute, requestStore, newFakeChatMessageStore(), metrics)

	// Each index loads on its own first touch and is counted separately.
	_, err := c.GetInitiatedChatRequest("contact1", "", nil)
	require.Nil(t, err)
	assert.Equal(t, 1, metrics.refreshes["InitiatedChatsByContact"])
	assert.Equal(t, 0, metrics.refreshes["InitiatedChatsByUser"])

	_, err = c.GetInitiatedChatRequest("contact9", "user1", nil)
	require.Nil(t, err)
	assert.Equal(t, 1, metrics.refreshes["InitiatedChatsByContact"])
	assert.Equal(t, 1, metrics.refreshes["InitiatedChatsByUser"])
}

func TestInitiatedChatsAttachesTranscript(t *testing.T) {
	requestStore := newFakeInitiateRequestStore()
	messageStore := newFakeChatMessageStore()
	requestStore.put(testInitiateRequest("r1", "contact1", "user1", "room1", 1000))
	messageStore.Save(&model.ChatMessage{Id: model.NewId(), RoomId: "room1", UserId: "user1", Message: "hello", CreateAt: 900})
	messageStore.Save(&model.ChatMessage{Id: model.NewId(), RoomId: "room1", UserId: "contact1", Message: "hi", CreateAt: 950})

	c := NewInitiatedChats(time.Minute, requestStore, messageStore, nil)

	request, err := c.GetInitiatedChatRequest("contact1", "", nil)
	require.Nil(t, err)
	require.NotNil(t, request)
	require.Len(t, request.Messages, 2)
	assert.Equal(t, "hello", request.Messages[0].Message)
}

func TestInitiatedChatsSinceFiltersKnownRequests(t *testing.T) {
	requestStore := newFakeInitiateRequestStore()
	requestStore.put(testInitiateRequest("r1", "contact1", "user1", "room1", 1000))

	c := NewInitiatedChats(time.Minute, requestStore, newFakeChatMessageStore(), nil)

	// Already delivered to this caller: treated as not found.
	request, err := c.GetInitiatedChatRequest("contact1", "", model.NewInt64(1000))
	require.Nil(t, err)
	assert.Nil(t, request)

	request, err = c.GetInitiatedChatRequest("contact1", "", model.NewInt64(500))
	require.Nil(t, err)
	assert.NotNil(t, request)
}

func TestInitiatedChatsIndependentInvalidation(t *testing.T) {
	requestStore := newFakeInitiateRequestStore()
	c := NewInitiatedChats(time.Minute, requestStore, newFakeChatMessageStore(), nil)

	// Warm both indexes.
	_, err := c.GetInitiatedChatRequest("contact1", "user1", nil)
	require.Nil(t, err)

	requestStore.put(testInitiateRequest("r1", "contact1", "user1", "room1", 2000))

	// Only the contact index is invalidated; the user index still runs
	// on its stale snapshot until its own TTL expires.
	c.InvalidateByContact()

	request, err := c.GetInitiatedChatRequest("contact1", "", nil)
	require.Nil(t, err)
	require.NotNil(t, request)

	request, err = c.GetInitiatedChatRequest("", "user1", nil)
	require.Nil(t, err)
	assert.Nil(t, request)
}

func TestInitiatedChatsRemovedRequestNotReturned(t *testing.T) {
	requestStore := newFakeInitiateRequestStore()
	requestStore.put(testInitiateRequest("r1", "contact1", "user1", "room1", 1000))

	c := NewInitiatedChats(time.Minute, requestStore, newFakeChatMessageStore(), nil)

	request, err := c.GetInitiatedChatRequest("contact1", "", nil)
	require.Nil(t, err)
	require.NotNil(t, request)

	// The handshake completed; the tombstone must win after a refresh.
	requestStore.Remove("r1", 2000)
	c.InvalidateByContact()

	request, err = c.GetInitiatedChatRequest("contact1", "", nil)
	require.Nil(t, err)
	assert.Nil(t, request)
}

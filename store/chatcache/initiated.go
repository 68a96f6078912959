// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"time"

	"github.com/sitechat/server/v5/einterfaces"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/services/cache"
	"github.com/sitechat/server/v5/store"
)

// InitiatedChats caches pending 1:1 chat-initiation handshakes twice,
// keyed by contact and keyed by user, so either lookup path is O(1).
// Both caches poll the same request table and refresh independently;
// they may transiently disagree within one TTL window, which the
// handshake flow tolerates. It is process-wide: requests are loaded
// across all sites.
type InitiatedChats struct {
	messageStore store.ChatMessageStore
	byContact    *cache.Incremental[string, *model.InitiateRequest]
	byUser       *cache.Incremental[string, *model.InitiateRequest]
}

func NewInitiatedChats(ttl time.Duration, requestStore store.InitiateRequestStore, messageStore store.ChatMessageStore, metrics einterfaces.MetricsInterface) *InitiatedChats {
	keyByContact := func(r *model.InitiateRequest) string { return r.ContactId }
	keyByUser := func(r *model.InitiateRequest) string { return r.UserId }

	c := &InitiatedChats{messageStore: messageStore}
	c.byContact = cache.NewIncremental("InitiatedChatsByContact", ttl, keyByContact,
		fullLoadRequests(requestStore, keyByContact, "InitiatedChatsByContact", metrics),
		deltaLoadRequests(requestStore, "InitiatedChatsByContact", metrics))
	c.byUser = cache.NewIncremental("InitiatedChatsByUser", ttl, keyByUser,
		fullLoadRequests(requestStore, keyByUser, "InitiatedChatsByUser", metrics),
		deltaLoadRequests(requestStore, "InitiatedChatsByUser", metrics))
	return c
}

func fullLoadRequests(requestStore store.InitiateRequestStore, keyOf func(*model.InitiateRequest) string, cacheName string, metrics einterfaces.MetricsInterface) cache.FullLoadFunc[string, *model.InitiateRequest] {
	return func() (map[string]cache.ChangeRecord[*model.InitiateRequest], int64, error) {
		requests, storeNow, err := requestStore.GetAll("")
		if err != nil {
			return nil, 0, err
		}
		if metrics != nil {
			metrics.IncrementChatCacheRefreshCounter(cacheName)
		}
		records := make(map[string]cache.ChangeRecord[*model.InitiateRequest], len(requests))
		for _, request := range requests {
			records[keyOf(request)] = requestRecord(request)
		}
		return records, storeNow, nil
	}
}

func deltaLoadRequests(requestStore store.InitiateRequestStore, cacheName string, metrics einterfaces.MetricsInterface) cache.DeltaLoadFunc[*model.InitiateRequest] {
	return func(since int64) ([]cache.ChangeRecord[*model.InitiateRequest], int64, error) {
		requests, storeNow, err := requestStore.GetChangedSince("", since)
		if err != nil {
			return nil, 0, err
		}
		if metrics != nil {
			metrics.IncrementChatCacheRefreshCounter(cacheName)
		}
		records := make([]cache.ChangeRecord[*model.InitiateRequest], len(requests))
		for i, request := range requests {
			records[i] = requestRecord(request)
		}
		return records, storeNow, nil
	}
}

func requestRecord(request *model.InitiateRequest) cache.ChangeRecord[*model.InitiateRequest] {
	return cache.ChangeRecord[*model.InitiateRequest]{
		Value:      request,
		ChangeTime: request.ChangeTime,
		IsRemoved:  request.IsRemoved,
	}
}

// GetInitiatedChatRequest resolves a pending request by contact id, then
// by user id. A found request gets its transcript attached before being
// returned. A request not changed after since is already known to the
// caller and reported as not found.
func (c *InitiatedChats) GetInitiatedChatRequest(contactId string, userId string, since *int64) (*model.InitiateRequest, *model.AppError) {
	var request *model.InitiateRequest

	if contactId != "" {
		found, ok, err := c.byContact.GetItem(contactId)
		if err != nil {
			return nil, toAppError("InitiatedChats.GetInitiatedChatRequest", err)
		}
		if ok {
			request = found
		}
	}

	if request == nil && userId != "" {
		found, ok, err := c.byUser.GetItem(userId)
		if err != nil {
			return nil, toAppError("InitiatedChats.GetInitiatedChatRequest", err)
		}
		if ok {
			request = found
		}
	}

	if request == nil {
		return nil, nil
	}
	if since != nil && request.ChangeTime <= *since {
		return nil, nil
	}

	request = request.DeepCopy()
	messages, appErr := c.messageStore.GetForRoom(request.RoomId)
	if appErr != nil {
		return nil, appErr
	}
	request.Messages = messages
	return request, nil
}

// InvalidateByContact force-refreshes only the contact-keyed index; a
// write path uses it without perturbing the user-keyed one.
func (c *InitiatedChats) InvalidateByContact() {
	c.byContact.InvalidateCurrentState()
}

func (c *InitiatedChats) InvalidateByUser() {
	c.byUser.InvalidateCurrentState()
}

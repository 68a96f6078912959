// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package app

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

// Write paths invalidate only the cache that serves the written data.
// Reads stay on the cached snapshots until their own TTL expires.

func (s *Server) PostChatMessage(siteId string, userId string, roomId string, message string) (*model.ChatMessage, *model.AppError) {
	if kicked, secondsLeft, appErr := s.ChatCache.IsKicked(userId); appErr != nil {
		return nil, appErr
	} else if kicked {
		return nil, model.NewAppError("PostChatMessage", "app.chat.post_message.kicked.app_error", map[string]interface{}{"SecondsLeft": secondsLeft}, "userId="+userId, http.StatusForbidden)
	}

	if !s.ChatCache.CheckFloodOperation(userId, model.FLOOD_OP_MESSAGE) {
		return nil, model.NewAppError("PostChatMessage", "app.chat.post_message.flood.app_error", nil, "userId="+userId, http.StatusTooManyRequests)
	}

	room, appErr := s.ChatCache.ForSite(siteId).Rooms.ForceTryGetRoom(roomId)
	if appErr != nil {
		return nil, appErr
	}
	if room == nil || !room.Enabled {
		return nil, model.NewAppError("PostChatMessage", "app.chat.post_message.no_room.app_error", nil, "roomId="+roomId, http.StatusNotFound)
	}

	msg := &model.ChatMessage{
		RoomId:  roomId,
		UserId:  userId,
		Message: message,
	}
	return s.Store.ChatMessage().Save(msg)
}

// InitiateChat creates the one-to-one room and the pending request in
// one step, then notifies the contact.
func (s *Server) InitiateChat(siteId string, contactId string, userId string) (*model.InitiateRequest, *model.AppError) {
	if !s.ChatCache.CheckFloodOperation(userId, model.FLOOD_OP_INITIATE_CHAT) {
		return nil, model.NewAppError("InitiateChat", "app.chat.initiate.flood.app_error", nil, "userId="+userId, http.StatusTooManyRequests)
	}

	room := &model.Room{
		SiteId:     siteId,
		Name:       model.NewId(),
		IsPrivate:  true,
		IsOneToOne: true,
		Enabled:    true,
	}
	room, appErr := s.Store.Room().Save(room)
	if appErr != nil {
		return nil, appErr
	}

	request := &model.InitiateRequest{
		SiteId:    siteId,
		ContactId: contactId,
		UserId:    userId,
		RoomId:    room.Id,
	}
	request, appErr = s.Store.InitiateRequest().Save(request)
	if appErr != nil {
		return nil, appErr
	}

	s.ChatCache.InvalidateInitiatedByContact()
	s.ChatCache.InvalidateInitiatedByUser()

	notification := &model.Notification{
		UserId: contactId,
		SiteId: siteId,
		Type:   model.NOTIFICATION_TYPE_INITIATED,
		Data:   model.StringMap{"room_id": room.Id, "user_id": userId},
	}
	if _, appErr := s.Store.Notification().Save(notification); appErr != nil {
		return nil, appErr
	}
	s.ChatCache.ForSite(siteId).OnlineUsers.InvalidateNotifications()

	return request, nil
}

func (s *Server) CloseInitiatedChat(siteId string, requestId string) *model.AppError {
	now, appErr := s.Store.System().Now()
	if appErr != nil {
		return appErr
	}

	if appErr := s.Store.InitiateRequest().Remove(requestId, now); appErr != nil {
		return appErr
	}

	s.ChatCache.InvalidateInitiatedByContact()
	s.ChatCache.InvalidateInitiatedByUser()
	return nil
}

func (s *Server) SetUserOnline(siteId string, user *model.OnlineUser) (*model.OnlineUser, *model.AppError) {
	user.SiteId = siteId
	user, appErr := s.Store.OnlineUser().Save(user)
	if appErr != nil {
		return nil, appErr
	}

	s.ChatCache.ForSite(siteId).OnlineUsers.InvalidateOnlineUsers()
	s.ChatCache.ForSite(siteId).Support.Invalidate()
	return user, nil
}

func (s *Server) SetUserOffline(siteId string, userId string) *model.AppError {
	now, appErr := s.Store.System().Now()
	if appErr != nil {
		return appErr
	}

	if appErr := s.Store.OnlineUser().Remove(siteId, userId, now); appErr != nil {
		return appErr
	}

	s.ChatCache.ForSite(siteId).OnlineUsers.InvalidateOnlineUsers()
	s.ChatCache.ForSite(siteId).Support.Invalidate()
	return nil
}

// KickUser bans the user for durationSeconds across the whole site.
func (s *Server) KickUser(siteId string, userId string, roomId string, durationSeconds int) *model.AppError {
	now, appErr := s.Store.System().Now()
	if appErr != nil {
		return appErr
	}

	kicked := &model.KickedUser{
		UserId:    userId,
		SiteId:    siteId,
		RoomId:    roomId,
		KickedAt:  now,
		ExpiresAt: now + int64(durationSeconds)*1000,
	}
	if _, appErr := s.Store.KickedUser().Save(kicked); appErr != nil {
		return appErr
	}

	notification := &model.Notification{
		UserId: userId,
		SiteId: siteId,
		Type:   model.NOTIFICATION_TYPE_KICKED,
		Data:   model.StringMap{"room_id": roomId},
	}
	if _, appErr := s.Store.Notification().Save(notification); appErr != nil {
		return appErr
	}

	s.ChatCache.ForSite(siteId).OnlineUsers.InvalidateNotifications()
	return nil
}

func (s *Server) DeleteRoom(siteId string, roomId string) *model.AppError {
	now, appErr := s.Store.System().Now()
	if appErr != nil {
		return appErr
	}

	if appErr := s.Store.Room().Delete(roomId, now); appErr != nil {
		return appErr
	}

	s.ChatCache.ForSite(siteId).Rooms.Invalidate()
	return nil
}

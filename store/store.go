// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package store

import (
	"github.com/sitechat/server/v5/model"
)

// Store is the relational boundary of the chat cache family. Change-time
// values in every result set come from the store's own clock; the cache
// layer runs on web-farm nodes with skewed local clocks and never
// compares a store timestamp against local time.
//
// Changed-since queries are exclusive on the boundary: a row with
// ChangeTime equal to since is not re-returned. The incremental merge
// relies on this; see the contract tests in sqlstore.
type Store interface {
	Room() RoomStore
	OnlineUser() OnlineUserStore
	InitiateRequest() InitiateRequestStore
	ChatMessage() ChatMessageStore
	KickedUser() KickedUserStore
	Notification() NotificationStore
	Support() SupportStore
	Rights() RightsStore
	System() SystemStore
	Close()
	DropAllTables()
	TotalMasterDbConnections() int
}

type RoomStore interface {
	Save(room *model.Room) (*model.Room, *model.AppError)
	Update(room *model.Room) (*model.Room, *model.AppError)
	// Get returns nil without an error when the room does not exist.
	Get(id string) (*model.Room, *model.AppError)
	// GetAll and GetChangedSince also return the store clock captured by
	// the same query, to be used as the next changed-since low-water mark.
	GetAll(siteId string) ([]*model.Room, int64, *model.AppError)
	GetChangedSince(siteId string, since int64) ([]*model.Room, int64, *model.AppError)
	GetUserIdsInRoom(roomId string) ([]string, *model.AppError)
	Delete(roomId string, time int64) *model.AppError
}

type OnlineUserStore interface {
	Save(user *model.OnlineUser) (*model.OnlineUser, *model.AppError)
	GetAll(siteId string) ([]*model.OnlineUser, int64, *model.AppError)
	// GetChangedSince includes tombstone rows (IsRemoved) for online
	// records that timed out or logged out after since.
	GetChangedSince(siteId string, since int64) ([]*model.OnlineUser, int64, *model.AppError)
	Remove(siteId string, userId string, time int64) *model.AppError
}

type InitiateRequestStore interface {
	Save(request *model.InitiateRequest) (*model.InitiateRequest, *model.AppError)
	// An empty siteId selects requests across every site; the initiated
	// chats cache is process-wide.
	GetAll(siteId string) ([]*model.InitiateRequest, int64, *model.AppError)
	GetChangedSince(siteId string, since int64) ([]*model.InitiateRequest, int64, *model.AppError)
	Remove(requestId string, time int64) *model.AppError
}

type ChatMessageStore interface {
	Save(message *model.ChatMessage) (*model.ChatMessage, *model.AppError)
	GetForRoom(roomId string) ([]*model.ChatMessage, *model.AppError)
}

type KickedUserStore interface {
	Save(kicked *model.KickedUser) (*model.KickedUser, *model.AppError)
	GetAllActive() ([]*model.KickedUser, *model.AppError)
}

type NotificationStore interface {
	Save(notification *model.Notification) (*model.Notification, *model.AppError)
	GetChangedSince(userId string, since int64) ([]*model.Notification, *model.AppError)
	// GetLastChangeTimes maps every user of the site with at least one
	// notification to the change time of their newest one.
	GetLastChangeTimes(siteId string) (map[string]int64, *model.AppError)
}

type SupportStore interface {
	GetOnlineSupportUserIds(siteId string) ([]string, *model.AppError)
}

// RightsStore resolves room access for a specific user. Admin-level
// computation itself lives outside this subsystem; these lookups consume
// its results.
type RightsStore interface {
	GetRoomsWithJoinRights(userId string) ([]string, *model.AppError)
	GetRoomsWithChangedRights(userId string, since int64) ([]*model.RoomAdminLevel, *model.AppError)
	GetAdminLevelInRoom(userId string, roomId string) (model.AdminLevel, *model.AppError)
}

type SystemStore interface {
	// Now returns the authoritative store-side current time in
	// milliseconds.
	Now() (int64, *model.AppError)
}

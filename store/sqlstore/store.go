// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/mattermost/gorp"

	"github.com/sitechat/server/v5/store"
)

type SqlStore interface {
	DriverName() string
	GetMaster() *gorp.DbMap
	GetReplica() *gorp.DbMap
	GetAllConns() []*gorp.DbMap
	getQueryBuilder() sq.StatementBuilderType
	CreateIndexIfNotExists(indexName string, tableName string, columnName string)

	Room() store.RoomStore
	OnlineUser() store.OnlineUserStore
	InitiateRequest() store.InitiateRequestStore
	ChatMessage() store.ChatMessageStore
	KickedUser() store.KickedUserStore
	Notification() store.NotificationStore
	Support() store.SupportStore
	Rights() store.RightsStore
	System() store.SystemStore
}

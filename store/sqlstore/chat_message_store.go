// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlChatMessageStore struct {
	SqlStore
}

func newSqlChatMessageStore(sqlStore SqlStore) store.ChatMessageStore {
	s := &SqlChatMessageStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.ChatMessage{}, "ChatMessages").SetKeys(false, "Id")
		table.ColMap("Id").SetMaxSize(26)
		table.ColMap("RoomId").SetMaxSize(26)
		table.ColMap("UserId").SetMaxSize(26)
		table.ColMap("Message").SetMaxSize(model.CHAT_MESSAGE_MAX_RUNES)
	}

	return s
}

func (s SqlChatMessageStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_chatmessages_room_id", "ChatMessages", "RoomId")
	s.CreateIndexIfNotExists("idx_chatmessages_create_at", "ChatMessages", "CreateAt")
}

func (s SqlChatMessageStore) Save(message *model.ChatMessage) (*model.ChatMessage, *model.AppError) {
	message.PreSave()
	if appErr := message.IsValid(); appErr != nil {
		return nil, appErr
	}

	if err := s.GetMaster().Insert(message); err != nil {
		return nil, model.NewAppError("SqlChatMessageStore.Save", "store.sql_chat_message.save.app_error", nil, "id="+message.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	return message, nil
}

func (s SqlChatMessageStore) GetForRoom(roomId string) ([]*model.ChatMessage, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("ChatMessages").
		Where(sq.Eq{"RoomId": roomId}).
		OrderBy("CreateAt ASC").
		ToSql()

	var messages []*model.ChatMessage
	if _, err := s.GetReplica().Select(&messages, query, args...); err != nil {
		return nil, model.NewAppError("SqlChatMessageStore.GetForRoom", "store.sql_chat_message.get_for_room.app_error", nil, "roomId="+roomId+", "+err.Error(), http.StatusInternalServerError)
	}
	return messages, nil
}

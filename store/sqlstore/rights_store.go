// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlRightsStore struct {
	SqlStore
}

type roomMember struct {
	RoomId       string
	UserId       string
	AdminLevel   int
	LastUpdateAt int64
}

func newSqlRightsStore(sqlStore SqlStore) store.RightsStore {
	s := &SqlRightsStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(roomMember{}, "RoomMembers").SetKeys(false, "RoomId", "UserId")
		table.ColMap("RoomId").SetMaxSize(26)
		table.ColMap("UserId").SetMaxSize(26)
	}

	return s
}

func (s *SqlRightsStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_roommembers_user_id", "RoomMembers", "UserId")
	s.CreateIndexIfNotExists("idx_roommembers_last_update_at", "RoomMembers", "LastUpdateAt")
}

func (s SqlRightsStore) GetRoomsWithJoinRights(userId string) ([]string, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("RoomId").
		From("RoomMembers").
		Where(sq.Eq{"UserId": userId}).
		Where(sq.GtOrEq{"AdminLevel": int(model.ADMIN_LEVEL_JOIN)}).
		ToSql()

	var roomIds []string
	if _, err := s.GetReplica().Select(&roomIds, query, args...); err != nil {
		return nil, model.NewAppError("SqlRightsStore.GetRoomsWithJoinRights", "store.sql_rights.get_rooms_with_join_rights.app_error", nil, "userId="+userId+", "+err.Error(), http.StatusInternalServerError)
	}
	return roomIds, nil
}

// GetRoomsWithChangedRights includes revocations: a row downgraded to
// ADMIN_LEVEL_NONE still comes back so the caller can tombstone the
// room.
func (s SqlRightsStore) GetRoomsWithChangedRights(userId string, since int64) ([]*model.RoomAdminLevel, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("RoomId", "AdminLevel").
		From("RoomMembers").
		Where(sq.Eq{"UserId": userId}).
		Where(sq.Gt{"LastUpdateAt": since}).
		ToSql()

	var changed []*model.RoomAdminLevel
	if _, err := s.GetReplica().Select(&changed, query, args...); err != nil {
		return nil, model.NewAppError("SqlRightsStore.GetRoomsWithChangedRights", "store.sql_rights.get_rooms_with_changed_rights.app_error", nil, "userId="+userId+", "+err.Error(), http.StatusInternalServerError)
	}
	return changed, nil
}

func (s SqlRightsStore) GetAdminLevelInRoom(userId string, roomId string) (model.AdminLevel, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("AdminLevel").
		From("RoomMembers").
		Where(sq.Eq{"UserId": userId, "RoomId": roomId}).
		ToSql()

	level, err := s.GetReplica().SelectNullInt(query, args...)
	if err != nil {
		return model.ADMIN_LEVEL_NONE, model.NewAppError("SqlRightsStore.GetAdminLevelInRoom", "store.sql_rights.get_admin_level_in_room.app_error", nil, "userId="+userId+", "+err.Error(), http.StatusInternalServerError)
	}
	if !level.Valid {
		return model.ADMIN_LEVEL_NONE, nil
	}
	return model.AdminLevel(level.Int64), nil
}

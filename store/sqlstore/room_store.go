// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"database/sql"
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlRoomStore struct {
	SqlStore
}

func newSqlRoomStore(sqlStore SqlStore) store.RoomStore {
	s := &SqlRoomStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.Room{}, "Rooms").SetKeys(false, "Id")
		table.ColMap("Id").SetMaxSize(26)
		table.ColMap("SiteId").SetMaxSize(26)
		table.ColMap("Name").SetMaxSize(model.ROOM_NAME_MAX_LENGTH)
	}

	return s
}

func (s SqlRoomStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_rooms_site_id", "Rooms", "SiteId")
	s.CreateIndexIfNotExists("idx_rooms_last_modification", "Rooms", "LastModification")
}

func (s SqlRoomStore) Save(room *model.Room) (*model.Room, *model.AppError) {
	room.PreSave()
	if room.LastModification == 0 {
		now, appErr := storeNow(s.SqlStore)
		if appErr != nil {
			return nil, appErr
		}
		room.LastModification = now
		room.PrivateStateLastModification = now
	}

	if appErr := room.IsValid(); appErr != nil {
		return nil, appErr
	}

	if err := s.GetMaster().Insert(room); err != nil {
		return nil, model.NewAppError("SqlRoomStore.Save", "store.sql_room.save.app_error", nil, "id="+room.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	return room, nil
}

func (s SqlRoomStore) Update(room *model.Room) (*model.Room, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, appErr
	}
	room.LastModification = now

	if appErr := room.IsValid(); appErr != nil {
		return nil, appErr
	}

	count, err := s.GetMaster().Update(room)
	if err != nil {
		return nil, model.NewAppError("SqlRoomStore.Update", "store.sql_room.update.app_error", nil, "id="+room.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	if count != 1 {
		return nil, model.NewAppError("SqlRoomStore.Update", "store.sql_room.update.not_found.app_error", nil, "id="+room.Id, http.StatusNotFound)
	}
	return room, nil
}

func (s SqlRoomStore) Get(id string) (*model.Room, *model.AppError) {
	var room model.Room
	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("Rooms").
		Where(sq.Eq{"Id": id}).
		ToSql()

	if err := s.GetReplica().SelectOne(&room, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, model.NewAppError("SqlRoomStore.Get", "store.sql_room.get.app_error", nil, "id="+id+", "+err.Error(), http.StatusInternalServerError)
	}
	return &room, nil
}

// GetAll captures the store clock before selecting, so the returned mark
// never postdates a row missing from the snapshot.
func (s SqlRoomStore) GetAll(siteId string) ([]*model.Room, int64, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, 0, appErr
	}

	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("Rooms").
		Where(sq.Eq{"SiteId": siteId}).
		ToSql()

	var rooms []*model.Room
	if _, err := s.GetReplica().Select(&rooms, query, args...); err != nil {
		return nil, 0, model.NewAppError("SqlRoomStore.GetAll", "store.sql_room.get_all.app_error", nil, "siteId="+siteId+", "+err.Error(), http.StatusInternalServerError)
	}
	return rooms, now, nil
}

func (s SqlRoomStore) GetChangedSince(siteId string, since int64) ([]*model.Room, int64, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, 0, appErr
	}

	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("Rooms").
		Where(sq.Eq{"SiteId": siteId}).
		Where(sq.Gt{"LastModification": since}).
		ToSql()

	var rooms []*model.Room
	if _, err := s.GetReplica().Select(&rooms, query, args...); err != nil {
		return nil, 0, model.NewAppError("SqlRoomStore.GetChangedSince", "store.sql_room.get_changed_since.app_error", nil, "siteId="+siteId+", "+err.Error(), http.StatusInternalServerError)
	}
	return rooms, now, nil
}

func (s SqlRoomStore) GetUserIdsInRoom(roomId string) ([]string, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("UserId").
		From("RoomMembers").
		Where(sq.Eq{"RoomId": roomId}).
		Where(sq.Gt{"AdminLevel": int(model.ADMIN_LEVEL_NONE)}).
		ToSql()

	var userIds []string
	if _, err := s.GetReplica().Select(&userIds, query, args...); err != nil {
		return nil, model.NewAppError("SqlRoomStore.GetUserIdsInRoom", "store.sql_room.get_user_ids_in_room.app_error", nil, "roomId="+roomId+", "+err.Error(), http.StatusInternalServerError)
	}
	return userIds, nil
}

// Delete soft deletes: clients that already have the room must still
// receive its tombstone on their next changed-since poll.
func (s SqlRoomStore) Delete(roomId string, time int64) *model.AppError {
	query, args, _ := s.getQueryBuilder().
		Update("Rooms").
		Set("DeleteAt", time).
		Set("Enabled", false).
		Set("LastModification", time).
		Where(sq.Eq{"Id": roomId}).
		ToSql()

	if _, err := s.GetMaster().Exec(query, args...); err != nil {
		return model.NewAppError("SqlRoomStore.Delete", "store.sql_room.delete.app_error", nil, "id="+roomId+", "+err.Error(), http.StatusInternalServerError)
	}
	return nil
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlOnlineUserStore struct {
	SqlStore
}

func newSqlOnlineUserStore(sqlStore SqlStore) store.OnlineUserStore {
	s := &SqlOnlineUserStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.OnlineUser{}, "OnlineUsers").SetKeys(false, "SiteId", "UserId")
		table.ColMap("SiteId").SetMaxSize(26)
		table.ColMap("UserId").SetMaxSize(26)
		table.ColMap("Nickname").SetMaxSize(64)
	}

	return s
}

func (s SqlOnlineUserStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_onlineusers_site_id", "OnlineUsers", "SiteId")
	s.CreateIndexIfNotExists("idx_onlineusers_change_time", "OnlineUsers", "ChangeTime")
}

func (s SqlOnlineUserStore) Save(user *model.OnlineUser) (*model.OnlineUser, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, appErr
	}
	user.ChangeTime = now
	user.IsRemoved = false

	count, err := s.GetMaster().Update(user)
	if err != nil {
		return nil, model.NewAppError("SqlOnlineUserStore.Save", "store.sql_online_user.save.app_error", nil, "userId="+user.UserId+", "+err.Error(), http.StatusInternalServerError)
	}
	if count == 0 {
		if err := s.GetMaster().Insert(user); err != nil {
			return nil, model.NewAppError("SqlOnlineUserStore.Save", "store.sql_online_user.save.app_error", nil, "userId="+user.UserId+", "+err.Error(), http.StatusInternalServerError)
		}
	}
	return user, nil
}

func (s SqlOnlineUserStore) GetAll(siteId string) ([]*model.OnlineUser, int64, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, 0, appErr
	}

	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("OnlineUsers").
		Where(sq.Eq{"SiteId": siteId}).
		ToSql()

	var users []*model.OnlineUser
	if _, err := s.GetReplica().Select(&users, query, args...); err != nil {
		return nil, 0, model.NewAppError("SqlOnlineUserStore.GetAll", "store.sql_online_user.get_all.app_error", nil, "siteId="+siteId+", "+err.Error(), http.StatusInternalServerError)
	}
	return users, now, nil
}

// GetChangedSince keeps tombstone rows in the result so departures reach
// clients that polled before the removal.
func (s SqlOnlineUserStore) GetChangedSince(siteId string, since int64) ([]*model.OnlineUser, int64, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, 0, appErr
	}

	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("OnlineUsers").
		Where(sq.Eq{"SiteId": siteId}).
		Where(sq.Gt{"ChangeTime": since}).
		ToSql()

	var users []*model.OnlineUser
	if _, err := s.GetReplica().Select(&users, query, args...); err != nil {
		return nil, 0, model.NewAppError("SqlOnlineUserStore.GetChangedSince", "store.sql_online_user.get_changed_since.app_error", nil, "siteId="+siteId+", "+err.Error(), http.StatusInternalServerError)
	}
	return users, now, nil
}

func (s SqlOnlineUserStore) Remove(siteId string, userId string, time int64) *model.AppError {
	query, args, _ := s.getQueryBuilder().
		Update("OnlineUsers").
		Set("IsRemoved", true).
		Set("ChangeTime", time).
		Where(sq.Eq{"SiteId": siteId, "UserId": userId}).
		ToSql()

	if _, err := s.GetMaster().Exec(query, args...); err != nil {
		return model.NewAppError("SqlOnlineUserStore.Remove", "store.sql_online_user.remove.app_error", nil, "userId="+userId+", "+err.Error(), http.StatusInternalServerError)
	}
	return nil
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlKickedUserStore struct {
	SqlStore
}

func newSqlKickedUserStore(sqlStore SqlStore) store.KickedUserStore {
	s := &SqlKickedUserStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.KickedUser{}, "KickedUsers").SetKeys(false, "UserId", "RoomId")
		table.ColMap("UserId").SetMaxSize(26)
		table.ColMap("SiteId").SetMaxSize(26)
		table.ColMap("RoomId").SetMaxSize(26)
	}

	return s
}

func (s SqlKickedUserStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_kickedusers_expires_at", "KickedUsers", "ExpiresAt")
}

func (s SqlKickedUserStore) Save(kicked *model.KickedUser) (*model.KickedUser, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, appErr
	}
	if kicked.KickedAt == 0 {
		kicked.KickedAt = now
	}

	count, err := s.GetMaster().Update(kicked)
	if err != nil {
		return nil, model.NewAppError("SqlKickedUserStore.Save", "store.sql_kicked_user.save.app_error", nil, "userId="+kicked.UserId+", "+err.Error(), http.StatusInternalServerError)
	}
	if count == 0 {
		if err := s.GetMaster().Insert(kicked); err != nil {
			return nil, model.NewAppError("SqlKickedUserStore.Save", "store.sql_kicked_user.save.app_error", nil, "userId="+kicked.UserId+", "+err.Error(), http.StatusInternalServerError)
		}
	}
	return kicked, nil
}

// GetAllActive returns every ban that has not expired by the store
// clock. Expired rows are left for a cleanup job.
func (s SqlKickedUserStore) GetAllActive() ([]*model.KickedUser, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, appErr
	}

	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("KickedUsers").
		Where(sq.Gt{"ExpiresAt": now}).
		ToSql()

	var kicked []*model.KickedUser
	if _, err := s.GetReplica().Select(&kicked, query, args...); err != nil {
		return nil, model.NewAppError("SqlKickedUserStore.GetAllActive", "store.sql_kicked_user.get_all_active.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	return kicked, nil
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlSupportStore struct {
	SqlStore
}

type supportStaffMember struct {
	SiteId string
	UserId string
}

func newSqlSupportStore(sqlStore SqlStore) store.SupportStore {
	s := &SqlSupportStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(supportStaffMember{}, "SupportStaff").SetKeys(false, "SiteId", "UserId")
		table.ColMap("SiteId").SetMaxSize(26)
		table.ColMap("UserId").SetMaxSize(26)
	}

	return s
}

// GetOnlineSupportUserIds intersects the support roster with the online
// presence rows for the site.
func (s SqlSupportStore) GetOnlineSupportUserIds(siteId string) ([]string, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("SupportStaff.UserId").
		From("SupportStaff").
		Join("OnlineUsers ON OnlineUsers.SiteId = SupportStaff.SiteId AND OnlineUsers.UserId = SupportStaff.UserId").
		Where(sq.Eq{"SupportStaff.SiteId": siteId}).
		Where(sq.Eq{"OnlineUsers.IsRemoved": false}).
		ToSql()

	var userIds []string
	if _, err := s.GetReplica().Select(&userIds, query, args...); err != nil {
		return nil, model.NewAppError("SqlSupportStore.GetOnlineSupportUserIds", "store.sql_support.get_online_support_user_ids.app_error", nil, "siteId="+siteId+", "+err.Error(), http.StatusInternalServerError)
	}
	return userIds, nil
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlNotificationStore struct {
	SqlStore
}

func newSqlNotificationStore(sqlStore SqlStore) store.NotificationStore {
	s := &SqlNotificationStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.Notification{}, "Notifications").SetKeys(false, "Id")
		table.ColMap("Id").SetMaxSize(26)
		table.ColMap("UserId").SetMaxSize(26)
		table.ColMap("SiteId").SetMaxSize(26)
		table.ColMap("Type").SetMaxSize(32)
		table.ColMap("Data").SetMaxSize(2000)
	}

	return s
}

func (s SqlNotificationStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_notifications_user_id", "Notifications", "UserId")
	s.CreateIndexIfNotExists("idx_notifications_site_id", "Notifications", "SiteId")
	s.CreateIndexIfNotExists("idx_notifications_change_time", "Notifications", "ChangeTime")
}

func (s SqlNotificationStore) Save(notification *model.Notification) (*model.Notification, *model.AppError) {
	if notification.Id == "" {
		notification.Id = model.NewId()
	}

	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, appErr
	}
	notification.ChangeTime = now

	if err := s.GetMaster().Insert(notification); err != nil {
		return nil, model.NewAppError("SqlNotificationStore.Save", "store.sql_notification.save.app_error", nil, "id="+notification.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	return notification, nil
}

func (s SqlNotificationStore) GetChangedSince(userId string, since int64) ([]*model.Notification, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("*").
		From("Notifications").
		Where(sq.Eq{"UserId": userId}).
		Where(sq.Gt{"ChangeTime": since}).
		OrderBy("ChangeTime ASC").
		ToSql()

	var notifications []*model.Notification
	if _, err := s.GetReplica().Select(&notifications, query, args...); err != nil {
		return nil, model.NewAppError("SqlNotificationStore.GetChangedSince", "store.sql_notification.get_changed_since.app_error", nil, "userId="+userId+", "+err.Error(), http.StatusInternalServerError)
	}
	return notifications, nil
}

// GetLastChangeTimes feeds the per-site notification mark cache. One
// aggregate query replaces a per-user poll query.
func (s SqlNotificationStore) GetLastChangeTimes(siteId string) (map[string]int64, *model.AppError) {
	query, args, _ := s.getQueryBuilder().
		Select("UserId", "MAX(ChangeTime) AS LastChange").
		From("Notifications").
		Where(sq.Eq{"SiteId": siteId}).
		GroupBy("UserId").
		ToSql()

	var rows []struct {
		UserId     string
		LastChange int64
	}
	if _, err := s.GetReplica().Select(&rows, query, args...); err != nil {
		return nil, model.NewAppError("SqlNotificationStore.GetLastChangeTimes", "store.sql_notification.get_last_change_times.app_error", nil, "siteId="+siteId+", "+err.Error(), http.StatusInternalServerError)
	}

	marks := make(map[string]int64, len(rows))
	for _, row := range rows {
		marks[row.UserId] = row.LastChange
	}
	return marks, nil
}

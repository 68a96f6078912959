// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlSystemStore struct {
	SqlStore
}

func newSqlSystemStore(sqlStore SqlStore) store.SystemStore {
	return &SqlSystemStore{sqlStore}
}

// Now reads the database clock in milliseconds. Every change-time
// comparison in the cache layer runs against this clock, never against
// the clocks of the web-farm nodes.
func (s SqlSystemStore) Now() (int64, *model.AppError) {
	return storeNow(s.SqlStore)
}

func storeNow(s SqlStore) (int64, *model.AppError) {
	query := "SELECT ROUND(UNIX_TIMESTAMP(NOW(3)) * 1000)"
	if s.DriverName() == model.DATABASE_DRIVER_POSTGRES {
		query = "SELECT ROUND(EXTRACT(EPOCH FROM NOW()) * 1000)"
	}

	now, err := s.GetReplica().SelectInt(query)
	if err != nil {
		return 0, model.NewAppError("SqlSystemStore.Now", "store.sql_system.now.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return now, nil
}

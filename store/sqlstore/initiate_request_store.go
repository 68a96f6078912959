// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"net/http"

	sq "github.com/Masterminds/squirrel"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type SqlInitiateRequestStore struct {
	SqlStore
}

func newSqlInitiateRequestStore(sqlStore SqlStore) store.InitiateRequestStore {
	s := &SqlInitiateRequestStore{sqlStore}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.InitiateRequest{}, "InitiateRequests").SetKeys(false, "Id")
		table.ColMap("Id").SetMaxSize(26)
		table.ColMap("SiteId").SetMaxSize(26)
		table.ColMap("ContactId").SetMaxSize(26)
		table.ColMap("UserId").SetMaxSize(26)
		table.ColMap("RoomId").SetMaxSize(26)
	}

	return s
}

func (s SqlInitiateRequestStore) createIndexesIfNotExists() {
	s.CreateIndexIfNotExists("idx_initiaterequests_contact_id", "InitiateRequests", "ContactId")
	s.CreateIndexIfNotExists("idx_initiaterequests_user_id", "InitiateRequests", "UserId")
	s.CreateIndexIfNotExists("idx_initiaterequests_change_time", "InitiateRequests", "ChangeTime")
}

func (s SqlInitiateRequestStore) Save(request *model.InitiateRequest) (*model.InitiateRequest, *model.AppError) {
	if request.Id == "" {
		request.Id = model.NewId()
	}

	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, appErr
	}
	request.ChangeTime = now

	if err := s.GetMaster().Insert(request); err != nil {
		return nil, model.NewAppError("SqlInitiateRequestStore.Save", "store.sql_initiate_request.save.app_error", nil, "id="+request.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	return request, nil
}

func (s SqlInitiateRequestStore) GetAll(siteId string) ([]*model.InitiateRequest, int64, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, 0, appErr
	}

	builder := s.getQueryBuilder().
		Select("*").
		From("InitiateRequests")
	if siteId != "" {
		builder = builder.Where(sq.Eq{"SiteId": siteId})
	}
	query, args, _ := builder.ToSql()

	var requests []*model.InitiateRequest
	if _, err := s.GetReplica().Select(&requests, query, args...); err != nil {
		return nil, 0, model.NewAppError("SqlInitiateRequestStore.GetAll", "store.sql_initiate_request.get_all.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	return requests, now, nil
}

func (s SqlInitiateRequestStore) GetChangedSince(siteId string, since int64) ([]*model.InitiateRequest, int64, *model.AppError) {
	now, appErr := storeNow(s.SqlStore)
	if appErr != nil {
		return nil, 0, appErr
	}

	builder := s.getQueryBuilder().
		Select("*").
		From("InitiateRequests").
		Where(sq.Gt{"ChangeTime": since})
	if siteId != "" {
		builder = builder.Where(sq.Eq{"SiteId": siteId})
	}
	query, args, _ := builder.ToSql()

	var requests []*model.InitiateRequest
	if _, err := s.GetReplica().Select(&requests, query, args...); err != nil {
		return nil, 0, model.NewAppError("SqlInitiateRequestStore.GetChangedSince", "store.sql_initiate_request.get_changed_since.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	return requests, now, nil
}

func (s SqlInitiateRequestStore) Remove(requestId string, time int64) *model.AppError {
	query, args, _ := s.getQueryBuilder().
		Update("InitiateRequests").
		Set("IsRemoved", true).
		Set("ChangeTime", time).
		Where(sq.Eq{"Id": requestId}).
		ToSql()

	if _, err := s.GetMaster().Exec(query, args...); err != nil {
		return model.NewAppError("SqlInitiateRequestStore.Remove", "store.sql_initiate_request.remove.app_error", nil, "id="+requestId+", "+err.Error(), http.StatusInternalServerError)
	}
	return nil
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"time"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/services/cache"
	"github.com/sitechat/server/v5/store"
)

// OnlineSupport caches the set of users currently staffing live support
// for one site.
type OnlineSupport struct {
	siteId  string
	userIds *cache.Value[[]string]
}

func NewOnlineSupport(siteId string, ttl time.Duration, supportStore store.SupportStore) *OnlineSupport {
	s := &OnlineSupport{siteId: siteId}
	s.userIds = cache.NewValue(ttl, func() ([]string, error) {
		userIds, err := supportStore.GetOnlineSupportUserIds(siteId)
		if err != nil {
			return nil, err
		}
		return userIds, nil
	})
	return s
}

func (s *OnlineSupport) GetOnlineSupportUserIds() ([]string, *model.AppError) {
	userIds, err := s.userIds.Get()
	if err != nil {
		return nil, toAppError("OnlineSupport.GetOnlineSupportUserIds", err)
	}
	return userIds, nil
}

func (s *OnlineSupport) IsSupportOnline() (bool, *model.AppError) {
	userIds, err := s.GetOnlineSupportUserIds()
	if err != nil {
		return false, err
	}
	return len(userIds) > 0, nil
}

func (s *OnlineSupport) Invalidate() {
	s.userIds.Invalidate()
}

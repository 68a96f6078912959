// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"sort"
	"strings"
	"time"

	"github.com/sitechat/server/v5/einterfaces"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/services/cache"
	"github.com/sitechat/server/v5/store"
)

// SiteOnlineUsers tracks who is online on one site. The snapshot TTL is
// tuned below half the client ping interval, so a user who stops pinging
// is reported offline after at most one missed ping plus one refresh.
// A separate, coarser cache holds each user's last notification change
// time so most notification polls never touch the store.
type SiteOnlineUsers struct {
	siteId            string
	roomStore         store.RoomStore
	notificationStore store.NotificationStore

	users         *cache.Incremental[string, *model.OnlineUser]
	notifyChanges *cache.Value[map[string]int64]
}

func NewSiteOnlineUsers(siteId string, usersTTL time.Duration, notifyTTL time.Duration, userStore store.OnlineUserStore, roomStore store.RoomStore, notificationStore store.NotificationStore, metrics einterfaces.MetricsInterface) *SiteOnlineUsers {
	s := &SiteOnlineUsers{
		siteId:            siteId,
		roomStore:         roomStore,
		notificationStore: notificationStore,
	}

	countRefresh := func() {
		if metrics != nil {
			metrics.IncrementChatCacheRefreshCounter("OnlineUsers-" + siteId)
		}
	}

	s.users = cache.NewIncremental("OnlineUsers-"+siteId, usersTTL,
		func(user *model.OnlineUser) string { return user.UserId },
		func() (map[string]cache.ChangeRecord[*model.OnlineUser], int64, error) {
			users, storeNow, err := userStore.GetAll(siteId)
			if err != nil {
				return nil, 0, err
			}
			countRefresh()
			records := make(map[string]cache.ChangeRecord[*model.OnlineUser], len(users))
			for _, user := range users {
				records[user.UserId] = userRecord(user)
			}
			return records, storeNow, nil
		},
		func(since int64) ([]cache.ChangeRecord[*model.OnlineUser], int64, error) {
			users, storeNow, err := userStore.GetChangedSince(siteId, since)
			if err != nil {
				return nil, 0, err
			}
			countRefresh()
			records := make([]cache.ChangeRecord[*model.OnlineUser], len(users))
			for i, user := range users {
				records[i] = userRecord(user)
			}
			return records, storeNow, nil
		})

	s.notifyChanges = cache.NewValue(notifyTTL, func() (map[string]int64, error) {
		changes, err := notificationStore.GetLastChangeTimes(siteId)
		if err != nil {
			return nil, err
		}
		return changes, nil
	})

	return s
}

func userRecord(user *model.OnlineUser) cache.ChangeRecord[*model.OnlineUser] {
	return cache.ChangeRecord[*model.OnlineUser]{
		Value:      user,
		ChangeTime: user.ChangeTime,
		IsRemoved:  user.IsRemoved,
	}
}

// GetOnlineUsers serves a poll: the full non-hidden snapshot on the
// first request (since nil), the filtered delta afterwards. A user whose
// record became hidden is delivered as a removal, the same as one whose
// online record is gone.
func (s *SiteOnlineUsers) GetOnlineUsers(since *int64) (*model.OnlineUsersView, bool, *model.AppError) {
	if since == nil {
		state, lastChange, err := s.users.GetCurrentState()
		if err != nil {
			return nil, false, toAppError("SiteOnlineUsers.GetOnlineUsers", err)
		}

		view := &model.OnlineUsersView{
			Users:      []*model.OnlineUser{},
			LastChange: lastChange,
		}
		for _, user := range state {
			if !user.IsHidden {
				view.Users = append(view.Users, user.DeepCopy())
			}
		}
		sortUsers(view.Users)
		return view, true, nil
	}

	changed, lastChange, hasData, err := s.users.GetLatestData(*since)
	if err != nil {
		return nil, false, toAppError("SiteOnlineUsers.GetOnlineUsers", err)
	}
	if !hasData {
		return nil, false, nil
	}

	view := &model.OnlineUsersView{
		Users:      []*model.OnlineUser{},
		LastChange: lastChange,
	}
	for _, record := range changed {
		if record.IsRemoved || record.Value.IsHidden {
			view.RemovedUserIds = append(view.RemovedUserIds, record.Value.UserId)
		} else {
			view.Users = append(view.Users, record.Value.DeepCopy())
		}
	}
	return view, true, nil
}

// SearchOnlineUsers matches nicknames case-insensitively over the live
// snapshot. With invitedToRoomId set, users already present and online
// in that room are excluded; members who are offline (public-room admins
// among them) stay eligible, and are simply not in the snapshot. topN
// caps the result, 0 means no cap.
func (s *SiteOnlineUsers) SearchOnlineUsers(nickname string, topN int, invitedToRoomId string) ([]*model.OnlineUser, *model.AppError) {
	state, _, err := s.users.GetCurrentState()
	if err != nil {
		return nil, toAppError("SiteOnlineUsers.SearchOnlineUsers", err)
	}

	var inRoom map[string]bool
	if invitedToRoomId != "" {
		memberIds, appErr := s.roomStore.GetUserIdsInRoom(invitedToRoomId)
		if appErr != nil {
			return nil, appErr
		}
		inRoom = make(map[string]bool, len(memberIds))
		for _, id := range memberIds {
			inRoom[id] = true
		}
	}

	term := strings.ToLower(nickname)
	results := []*model.OnlineUser{}
	for _, user := range state {
		if user.IsHidden {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(user.Nickname), term) {
			continue
		}
		if inRoom != nil && inRoom[user.UserId] {
			continue
		}
		results = append(results, user.DeepCopy())
	}
	sortUsers(results)

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

// IsUserOnline answers "is this user really online": a snapshot miss
// forces a refresh before concluding no.
func (s *SiteOnlineUsers) IsUserOnline(userId string) (bool, *model.AppError) {
	_, found, err := s.users.ForceGetItem(userId)
	if err != nil {
		return false, toAppError("SiteOnlineUsers.IsUserOnline", err)
	}
	return found, nil
}

// GetNotifications short-circuits to "nothing new" from the cached
// per-user change times; only a user whose newest notification is newer
// than since costs a store round-trip.
func (s *SiteOnlineUsers) GetNotifications(userId string, since int64) ([]*model.Notification, bool, *model.AppError) {
	changes, err := s.notifyChanges.Get()
	if err != nil {
		return nil, false, toAppError("SiteOnlineUsers.GetNotifications", err)
	}

	if lastChange, ok := changes[userId]; !ok || lastChange <= since {
		return nil, false, nil
	}

	notifications, appErr := s.notificationStore.GetChangedSince(userId, since)
	if appErr != nil {
		return nil, false, appErr
	}
	return notifications, len(notifications) > 0, nil
}

// InvalidateOnlineUsers is called by write paths the delta poll would
// observe too slowly, e.g. right after an explicit logout.
func (s *SiteOnlineUsers) InvalidateOnlineUsers() {
	s.users.InvalidateCurrentState()
}

func (s *SiteOnlineUsers) InvalidateNotifications() {
	s.notifyChanges.Invalidate()
}

func sortUsers(users []*model.OnlineUser) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Nickname != users[j].Nickname {
			return users[i].Nickname < users[j].Nickname
		}
		return users[i].UserId < users[j].UserId
	})
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"time"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/services/cache"
	"github.com/sitechat/server/v5/store"
)

// KickedUsers answers "is this user currently banned, and for how much
// longer". The ban-expiry map is reloaded from the store on its own
// cadence; the lookup itself never queries.
type KickedUsers struct {
	kickedStore store.KickedUserStore
	expiries    *cache.Value[map[string]int64]
	now         func() int64
}

func NewKickedUsers(ttl time.Duration, kickedStore store.KickedUserStore) *KickedUsers {
	k := &KickedUsers{
		kickedStore: kickedStore,
		now:         model.GetMillis,
	}
	k.expiries = cache.NewValue(ttl, k.loadExpiries)
	return k
}

func (k *KickedUsers) loadExpiries() (map[string]int64, error) {
	kicked, err := k.kickedStore.GetAllActive()
	if err != nil {
		return nil, err
	}

	expiries := make(map[string]int64, len(kicked))
	for _, ku := range kicked {
		// Overlapping bans: the latest expiry wins.
		if existing, ok := expiries[ku.UserId]; !ok || ku.ExpiresAt > existing {
			expiries[ku.UserId] = ku.ExpiresAt
		}
	}
	return expiries, nil
}

// IsKicked returns whether the user is banned and the seconds remaining,
// rounded up. A user who is not banned gets (false, -1).
func (k *KickedUsers) IsKicked(userId string) (bool, int, *model.AppError) {
	expiries, err := k.expiries.Get()
	if err != nil {
		return false, -1, toAppError("KickedUsers.IsKicked", err)
	}

	expiry, ok := expiries[userId]
	if !ok {
		return false, -1, nil
	}

	remaining := expiry - k.now()
	if remaining <= 0 {
		return false, -1, nil
	}
	return true, int((remaining + 999) / 1000), nil
}

func (k *KickedUsers) Invalidate() {
	k.expiries.Invalidate()
}

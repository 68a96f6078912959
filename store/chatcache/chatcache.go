// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"sync"
	"time"

	"github.com/sitechat/server/v5/einterfaces"
	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

// ChatCache is the process-wide registry of chat caches: a lazily
// populated per-site bundle plus the singletons every site shares (flood
// protector, kicked users, initiated chats). It is constructed once and
// injected into request handlers; there is no ambient global state.
type ChatCache struct {
	store   store.Store
	config  *model.Config
	metrics einterfaces.MetricsInterface

	mutex sync.Mutex
	sites map[string]*SiteCaches

	flood     *FloodProtector
	kicked    *KickedUsers
	initiated *InitiatedChats
}

// SiteCaches bundles the caches scoped to one site. The bundle is owned
// by the registry entry for its site and lives for the process lifetime.
type SiteCaches struct {
	SiteId      string
	Rooms       *RoomsContainer
	OnlineUsers *SiteOnlineUsers
	Support     *OnlineSupport
}

func New(baseStore store.Store, config *model.Config, metrics einterfaces.MetricsInterface) *ChatCache {
	c := &ChatCache{
		store:   baseStore,
		config:  config,
		metrics: metrics,
		sites:   make(map[string]*SiteCaches),
	}

	c.flood = NewFloodProtector(config.FloodSettings.IntervalSeconds, metrics)
	c.kicked = NewKickedUsers(seconds(*config.ChatSettings.KickedUsersCacheSeconds), baseStore.KickedUser())
	c.initiated = NewInitiatedChats(seconds(*config.ChatSettings.InitiatedChatsCacheSeconds), baseStore.InitiateRequest(), baseStore.ChatMessage(), metrics)

	return c
}

// ForSite returns the cache bundle for the site, constructing it on
// first touch. Construction happens under the registry lock so
// concurrent first access never builds duplicate bundles.
func (c *ChatCache) ForSite(siteId string) *SiteCaches {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if site, ok := c.sites[siteId]; ok {
		return site
	}

	mlog.Debug("Initializing chat caches for site", mlog.String("site_id", siteId))

	chat := c.config.ChatSettings
	site := &SiteCaches{
		SiteId: siteId,
		Rooms: NewRoomsContainer(siteId,
			seconds(*chat.RoomsMaxDelaySeconds),
			*chat.OneToOneRoomCacheSize,
			c.store.Room(), c.store.Rights(), c.metrics),
		OnlineUsers: NewSiteOnlineUsers(siteId,
			seconds(*chat.OnlineUsersCacheSeconds),
			seconds(*chat.NotificationsCacheSeconds),
			c.store.OnlineUser(), c.store.Room(), c.store.Notification(), c.metrics),
		Support: NewOnlineSupport(siteId,
			seconds(*chat.SupportCacheSeconds),
			c.store.Support()),
	}
	c.sites[siteId] = site
	return site
}

// CheckFloodOperation reports whether the user may execute the operation
// now, advancing the flood window either way.
func (c *ChatCache) CheckFloodOperation(userId string, operation string) bool {
	return c.flood.CheckOperation(userId, operation)
}

func (c *ChatCache) IsKicked(userId string) (bool, int, *model.AppError) {
	return c.kicked.IsKicked(userId)
}

func (c *ChatCache) GetInitiatedChatRequest(contactId string, userId string, since *int64) (*model.InitiateRequest, *model.AppError) {
	return c.initiated.GetInitiatedChatRequest(contactId, userId, since)
}

func (c *ChatCache) InvalidateInitiatedByContact() {
	c.initiated.InvalidateByContact()
}

func (c *ChatCache) InvalidateInitiatedByUser() {
	c.initiated.InvalidateByUser()
}

// InvalidateSite drops every cache of one site, e.g. after a bulk import
// the delta polls would digest too slowly.
func (c *ChatCache) InvalidateSite(siteId string) {
	c.mutex.Lock()
	site, ok := c.sites[siteId]
	c.mutex.Unlock()
	if !ok {
		return
	}

	site.Rooms.Invalidate()
	site.OnlineUsers.InvalidateOnlineUsers()
	site.OnlineUsers.InvalidateNotifications()
	site.Support.Invalidate()
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"sync"
	"time"

	"github.com/sitechat/server/v5/einterfaces"
	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/services/cache"
	"github.com/sitechat/server/v5/store"
)

// RoomsContainer keeps one site's rooms current against the store: a
// public partition, a private partition, and a lazily-demanded
// one-to-one room cache. A room lives in exactly one of the two
// partition maps at any instant; a changed-since fetch routes every
// returned room to the partition its IsPrivate flag names and evicts it
// from the other one, so partition migration is atomic under the
// container lock.
//
// Deleted and disabled rooms stay in their partition map so delta
// assembly can still hand tombstones to clients that saw them.
type RoomsContainer struct {
	siteId      string
	roomStore   store.RoomStore
	rightsStore store.RightsStore
	maxDelay    time.Duration
	metrics     einterfaces.MetricsInterface

	mutex   sync.Mutex
	loaded  bool
	public  map[string]*model.Room
	private map[string]*model.Room

	lastPublicRoomsChange  int64
	lastPrivateRoomsChange int64
	totalLastRoomsChange   int64
	// lastRoomsUpdateMark is the store clock captured by the last fetch;
	// it is the next changed-since low-water mark. The local-clock
	// lastRoomsUpdateAt only gates how often we fetch.
	lastRoomsUpdateMark int64
	lastRoomsUpdateAt   time.Time
	now                 func() time.Time

	oneToOne *cache.Dictionary[*model.Room]
}

func NewRoomsContainer(siteId string, maxDelay time.Duration, oneToOneCacheSize int, roomStore store.RoomStore, rightsStore store.RightsStore, metrics einterfaces.MetricsInterface) *RoomsContainer {
	c := &RoomsContainer{
		siteId:      siteId,
		roomStore:   roomStore,
		rightsStore: rightsStore,
		maxDelay:    maxDelay,
		metrics:     metrics,
		public:      make(map[string]*model.Room),
		private:     make(map[string]*model.Room),
		now:         time.Now,
	}
	c.oneToOne = cache.NewDictionary(oneToOneCacheSize, c.loadOneToOneRoom)
	return c
}

func (c *RoomsContainer) loadOneToOneRoom(roomId string) (*model.Room, bool, error) {
	room, err := c.roomStore.Get(roomId)
	if err != nil {
		return nil, false, err
	}
	if room == nil || !room.IsOneToOne || room.DeleteAt > 0 {
		return nil, false, nil
	}
	return room, true, nil
}

// updateRoomsIfNeeded must be called with the mutex held.
func (c *RoomsContainer) updateRoomsIfNeeded(force bool) *model.AppError {
	if c.loaded && !force && c.now().Sub(c.lastRoomsUpdateAt) <= c.maxDelay {
		return nil
	}

	var rooms []*model.Room
	var storeNow int64
	var err *model.AppError
	if !c.loaded {
		rooms, storeNow, err = c.roomStore.GetAll(c.siteId)
	} else {
		rooms, storeNow, err = c.roomStore.GetChangedSince(c.siteId, c.lastRoomsUpdateMark)
	}
	if err != nil {
		mlog.Error("Failed to refresh rooms", mlog.String("site_id", c.siteId), mlog.Err(err))
		return err
	}

	for _, room := range rooms {
		c.mergeRoom(room)
	}
	if storeNow > c.lastRoomsUpdateMark {
		c.lastRoomsUpdateMark = storeNow
	}
	c.lastRoomsUpdateAt = c.now()
	c.loaded = true

	if c.metrics != nil {
		c.metrics.IncrementChatCacheRefreshCounter("Rooms-" + c.siteId)
	}
	return nil
}

// mergeRoom must be called with the mutex held.
func (c *RoomsContainer) mergeRoom(room *model.Room) {
	if room.IsOneToOne {
		// One-to-one rooms never enter the partition maps; just drop any
		// cached copy so the next demand reloads it.
		c.oneToOne.Invalidate(room.Id)
		return
	}

	if room.IsPrivate {
		delete(c.public, room.Id)
		c.private[room.Id] = room
		if room.LastModification > c.lastPrivateRoomsChange {
			c.lastPrivateRoomsChange = room.LastModification
		}
	} else {
		delete(c.private, room.Id)
		c.public[room.Id] = room
		if room.LastModification > c.lastPublicRoomsChange {
			c.lastPublicRoomsChange = room.LastModification
		}
	}
	if room.LastModification > c.totalLastRoomsChange {
		c.totalLastRoomsChange = room.LastModification
	}
}

func anonymousVisible(room *model.Room) bool {
	return room.Enabled && room.AllowAnonymous && room.DeleteAt == 0
}

func visible(room *model.Room, anonymousAccount bool) bool {
	if !room.Enabled || room.DeleteAt > 0 {
		return false
	}
	if anonymousAccount && !room.AllowAnonymous {
		return false
	}
	return true
}

// GetChangedRoomsForAnonymous serves logged-out polls: public, enabled,
// anonymous-allowed rooms, reduced to the ones changed after since on
// repeat polls. The bool reports whether there is anything to send.
func (c *RoomsContainer) GetChangedRoomsForAnonymous(since *int64) (*model.RoomsView, bool, *model.AppError) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.updateRoomsIfNeeded(false); err != nil {
		return nil, false, err
	}

	// Anything the anonymous view could carry advanced one of the two
	// partition marks past since, so a repeat poll behind both marks
	// skips the partition scans.
	if since != nil && c.lastPublicRoomsChange <= *since && c.lastPrivateRoomsChange <= *since {
		return &model.RoomsView{Rooms: []*model.Room{}, LastChange: c.totalLastRoomsChange}, false, nil
	}

	view := &model.RoomsView{
		Rooms:      []*model.Room{},
		LastChange: c.totalLastRoomsChange,
	}

	for _, room := range c.public {
		if since != nil && room.LastModification <= *since {
			continue
		}
		if anonymousVisible(room) {
			view.Rooms = append(view.Rooms, room.DeepCopy())
		} else if since != nil {
			// The room changed out of the anonymous view.
			view.RemovedRoomIds = append(view.RemovedRoomIds, room.Id)
		}
	}

	if since != nil {
		// Rooms that migrated into the private partition disappear from
		// the anonymous view too. Rooms that were always private were
		// never in it, so the gate is the partition flip time, not the
		// last modification.
		for _, room := range c.private {
			if room.PrivateStateLastModification > *since {
				view.RemovedRoomIds = append(view.RemovedRoomIds, room.Id)
			}
		}
	}

	if since == nil {
		return view, true, nil
	}
	return view, len(view.Rooms) > 0 || len(view.RemovedRoomIds) > 0, nil
}

// GetChangedRooms serves authenticated polls. A first poll (since nil)
// carries every enabled public room plus the private rooms the user has
// join rights to. Repeat polls carry the rooms changed after since that
// the user may still see, the rooms whose rights changed for this user
// even if the room itself did not, and tombstones for rooms the user can
// no longer see, including public rooms that migrated to private and
// left the user outside.
func (c *RoomsContainer) GetChangedRooms(userId string, anonymousAccount bool, since *int64) (*model.RoomsView, bool, *model.AppError) {
	rights, appErr := c.rightsStore.GetRoomsWithJoinRights(userId)
	if appErr != nil {
		return nil, false, appErr
	}
	rightsSet := make(map[string]bool, len(rights))
	for _, roomId := range rights {
		rightsSet[roomId] = true
	}

	var changedRights []*model.RoomAdminLevel
	if since != nil {
		if changedRights, appErr = c.rightsStore.GetRoomsWithChangedRights(userId, *since); appErr != nil {
			return nil, false, appErr
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.updateRoomsIfNeeded(false); err != nil {
		return nil, false, err
	}

	view := &model.RoomsView{
		Rooms:      []*model.Room{},
		LastChange: c.totalLastRoomsChange,
	}
	included := make(map[string]bool)

	appendRoom := func(room *model.Room) {
		if !included[room.Id] {
			included[room.Id] = true
			view.Rooms = append(view.Rooms, room.DeepCopy())
		}
	}
	appendRemoved := func(roomId string) {
		if !included[roomId] {
			included[roomId] = true
			view.RemovedRoomIds = append(view.RemovedRoomIds, roomId)
		}
	}

	for _, room := range c.public {
		if since != nil && room.LastModification <= *since {
			continue
		}
		if visible(room, anonymousAccount) {
			appendRoom(room)
		} else if since != nil {
			appendRemoved(room.Id)
		}
	}

	for _, room := range c.private {
		if since == nil {
			if rightsSet[room.Id] && visible(room, anonymousAccount) {
				appendRoom(room)
			}
			continue
		}

		if room.LastModification <= *since {
			continue
		}
		if rightsSet[room.Id] && visible(room, anonymousAccount) {
			appendRoom(room)
		} else if room.PrivateStateLastModification > *since || rightsSet[room.Id] {
			// Either the room just migrated out of the user's reach, or
			// the user can see it but it is gone/disabled now. Both end
			// as a removal on the client.
			appendRemoved(room.Id)
		}
	}

	// Rights that changed for this user are reported even when the room
	// itself did not change, framed at the level that changed.
	for _, change := range changedRights {
		if view.AdminLevels == nil {
			view.AdminLevels = make(map[string]model.AdminLevel, len(changedRights))
		}
		view.AdminLevels[change.RoomId] = change.AdminLevel

		room := c.lookupRoom(change.RoomId)
		if room == nil {
			continue
		}
		if change.AdminLevel >= model.ADMIN_LEVEL_JOIN && visible(room, anonymousAccount) {
			appendRoom(room)
		} else if change.AdminLevel == model.ADMIN_LEVEL_NONE && room.IsPrivate {
			appendRemoved(room.Id)
		}
	}

	if since == nil {
		return view, true, nil
	}
	hasData := len(view.Rooms) > 0 || len(view.RemovedRoomIds) > 0 || len(view.AdminLevels) > 0
	return view, hasData, nil
}

// lookupRoom must be called with the mutex held.
func (c *RoomsContainer) lookupRoom(roomId string) *model.Room {
	if room, ok := c.public[roomId]; ok {
		return room
	}
	if room, ok := c.private[roomId]; ok {
		return room
	}
	return nil
}

// ForceTryGetRoom looks the room up in both partitions, forcing one
// unconditional refresh on a miss before giving up: the room may have
// been created after the last periodic refresh. One-to-one rooms are
// resolved through their own lazy cache.
func (c *RoomsContainer) ForceTryGetRoom(roomId string) (*model.Room, *model.AppError) {
	c.mutex.Lock()
	if err := c.updateRoomsIfNeeded(false); err != nil {
		c.mutex.Unlock()
		return nil, err
	}
	if room := c.lookupRoom(roomId); room != nil {
		room = room.DeepCopy()
		c.mutex.Unlock()
		return room, nil
	}

	if err := c.updateRoomsIfNeeded(true); err != nil {
		c.mutex.Unlock()
		return nil, err
	}
	if room := c.lookupRoom(roomId); room != nil {
		room = room.DeepCopy()
		c.mutex.Unlock()
		return room, nil
	}
	c.mutex.Unlock()

	room, found, err := c.oneToOne.GetItem(roomId)
	if err != nil {
		return nil, toAppError("RoomsContainer.ForceTryGetRoom", err)
	}
	if !found {
		return nil, nil
	}
	return room.DeepCopy(), nil
}

// GetOneToOneRoom resolves a one-to-one room through the lazy per-key
// cache; these rooms are rare compared to the partition maps and are
// never bulk-loaded.
func (c *RoomsContainer) GetOneToOneRoom(roomId string) (*model.Room, *model.AppError) {
	room, found, err := c.oneToOne.GetItem(roomId)
	if err != nil {
		return nil, toAppError("RoomsContainer.GetOneToOneRoom", err)
	}
	if !found {
		return nil, nil
	}
	return room.DeepCopy(), nil
}

// Invalidate drops all room state so the next access does a full load.
func (c *RoomsContainer) Invalidate() {
	c.mutex.Lock()
	c.loaded = false
	c.public = make(map[string]*model.Room)
	c.private = make(map[string]*model.Room)
	c.lastPublicRoomsChange = 0
	c.lastPrivateRoomsChange = 0
	c.totalLastRoomsChange = 0
	c.lastRoomsUpdateMark = 0
	c.mutex.Unlock()

	c.oneToOne.InvalidateAll()
}

// LastChange returns the rooms high-water mark without refreshing.
func (c *RoomsContainer) LastChange() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.totalLastRoomsChange
}

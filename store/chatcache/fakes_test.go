// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"net/http"
	"time"

	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Unix(1000, 0)}
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Millis() int64 {
	return model.GetMillisForTime(c.current)
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func storeUnavailable(where string) *model.AppError {
	return model.NewAppError(where, "store.sql.app_error", nil, "connection refused", http.StatusInternalServerError)
}

type fakeRoomStore struct {
	rooms         map[string]*model.Room
	members       map[string][]string
	now           int64
	getAllCalls   int
	changedCalls  int
	fail          bool
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{
		rooms:   make(map[string]*model.Room),
		members: make(map[string][]string),
	}
}

func (s *fakeRoomStore) put(room *model.Room) {
	s.rooms[room.Id] = room
	if room.LastModification > s.now {
		s.now = room.LastModification
	}
}

func (s *fakeRoomStore) Save(room *model.Room) (*model.Room, *model.AppError) {
	s.put(room)
	return room, nil
}

func (s *fakeRoomStore) Update(room *model.Room) (*model.Room, *model.AppError) {
	s.put(room)
	return room, nil
}

func (s *fakeRoomStore) Get(id string) (*model.Room, *model.AppError) {
	if s.fail {
		return nil, storeUnavailable("fakeRoomStore.Get")
	}
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return room.DeepCopy(), nil
}

func (s *fakeRoomStore) GetAll(siteId string) ([]*model.Room, int64, *model.AppError) {
	if s.fail {
		return nil, 0, storeUnavailable("fakeRoomStore.GetAll")
	}
	s.getAllCalls++
	rooms := []*model.Room{}
	for _, room := range s.rooms {
		if room.SiteId == siteId && !room.IsOneToOne {
			rooms = append(rooms, room.DeepCopy())
		}
	}
	return rooms, s.now, nil
}

func (s *fakeRoomStore) GetChangedSince(siteId string, since int64) ([]*model.Room, int64, *model.AppError) {
	if s.fail {
		return nil, 0, storeUnavailable("fakeRoomStore.GetChangedSince")
	}
	s.changedCalls++
	rooms := []*model.Room{}
	for _, room := range s.rooms {
		if room.SiteId == siteId && !room.IsOneToOne && room.LastModification > since {
			rooms = append(rooms, room.DeepCopy())
		}
	}
	return rooms, s.now, nil
}

func (s *fakeRoomStore) GetUserIdsInRoom(roomId string) ([]string, *model.AppError) {
	return s.members[roomId], nil
}

func (s *fakeRoomStore) Delete(roomId string, deleteTime int64) *model.AppError {
	if room, ok := s.rooms[roomId]; ok {
		room.DeleteAt = deleteTime
		room.LastModification = deleteTime
		if deleteTime > s.now {
			s.now = deleteTime
		}
	}
	return nil
}

type fakeRightsStore struct {
	joinRights    map[string][]string // userId -> roomIds
	changedRights map[string][]*model.RoomAdminLevel
}

func newFakeRightsStore() *fakeRightsStore {
	return &fakeRightsStore{
		joinRights:    make(map[string][]string),
		changedRights: make(map[string][]*model.RoomAdminLevel),
	}
}

func (s *fakeRightsStore) GetRoomsWithJoinRights(userId string) ([]string, *model.AppError) {
	return s.joinRights[userId], nil
}

func (s *fakeRightsStore) GetRoomsWithChangedRights(userId string, since int64) ([]*model.RoomAdminLevel, *model.AppError) {
	return s.changedRights[userId], nil
}

func (s *fakeRightsStore) GetAdminLevelInRoom(userId string, roomId string) (model.AdminLevel, *model.AppError) {
	for _, id := range s.joinRights[userId] {
		if id == roomId {
			return model.ADMIN_LEVEL_JOIN, nil
		}
	}
	return model.ADMIN_LEVEL_NONE, nil
}

type fakeOnlineUserStore struct {
	users map[string]*model.OnlineUser
	now   int64
}

func newFakeOnlineUserStore() *fakeOnlineUserStore {
	return &fakeOnlineUserStore{users: make(map[string]*model.OnlineUser)}
}

func (s *fakeOnlineUserStore) put(user *model.OnlineUser) {
	s.users[user.UserId] = user
	if user.ChangeTime > s.now {
		s.now = user.ChangeTime
	}
}

func (s *fakeOnlineUserStore) Save(user *model.OnlineUser) (*model.OnlineUser, *model.AppError) {
	s.put(user)
	return user, nil
}

func (s *fakeOnlineUserStore) GetAll(siteId string) ([]*model.OnlineUser, int64, *model.AppError) {
	users := []*model.OnlineUser{}
	for _, user := range s.users {
		if user.SiteId == siteId && !user.IsRemoved {
			users = append(users, user.DeepCopy())
		}
	}
	return users, s.now, nil
}

func (s *fakeOnlineUserStore) GetChangedSince(siteId string, since int64) ([]*model.OnlineUser, int64, *model.AppError) {
	users := []*model.OnlineUser{}
	for _, user := range s.users {
		if user.SiteId == siteId && user.ChangeTime > since {
			users = append(users, user.DeepCopy())
		}
	}
	return users, s.now, nil
}

func (s *fakeOnlineUserStore) Remove(siteId string, userId string, removeTime int64) *model.AppError {
	if user, ok := s.users[userId]; ok {
		user.IsRemoved = true
		user.ChangeTime = removeTime
		if removeTime > s.now {
			s.now = removeTime
		}
	}
	return nil
}

type fakeNotificationStore struct {
	notifications []*model.Notification
	lastChanges   map[string]int64
	changedCalls  int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{lastChanges: make(map[string]int64)}
}

func (s *fakeNotificationStore) Save(notification *model.Notification) (*model.Notification, *model.AppError) {
	s.notifications = append(s.notifications, notification)
	if notification.ChangeTime > s.lastChanges[notification.UserId] {
		s.lastChanges[notification.UserId] = notification.ChangeTime
	}
	return notification, nil
}

func (s *fakeNotificationStore) GetChangedSince(userId string, since int64) ([]*model.Notification, *model.AppError) {
	s.changedCalls++
	changed := []*model.Notification{}
	for _, notification := range s.notifications {
		if notification.UserId == userId && notification.ChangeTime > since {
			changed = append(changed, notification)
		}
	}
	return changed, nil
}

func (s *fakeNotificationStore) GetLastChangeTimes(siteId string) (map[string]int64, *model.AppError) {
	changes := make(map[string]int64, len(s.lastChanges))
	for userId, changeTime := range s.lastChanges {
		changes[userId] = changeTime
	}
	return changes, nil
}

type fakeInitiateRequestStore struct {
	requests map[string]*model.InitiateRequest
	now      int64
}

func newFakeInitiateRequestStore() *fakeInitiateRequestStore {
	return &fakeInitiateRequestStore{requests: make(map[string]*model.InitiateRequest)}
}

func (s *fakeInitiateRequestStore) put(request *model.InitiateRequest) {
	s.requests[request.Id] = request
	if request.ChangeTime > s.now {
		s.now = request.ChangeTime
	}
}

func (s *fakeInitiateRequestStore) Save(request *model.InitiateRequest) (*model.InitiateRequest, *model.AppError) {
	s.put(request)
	return request, nil
}

func (s *fakeInitiateRequestStore) GetAll(siteId string) ([]*model.InitiateRequest, int64, *model.AppError) {
	requests := []*model.InitiateRequest{}
	for _, request := range s.requests {
		if !request.IsRemoved {
			requests = append(requests, request.DeepCopy())
		}
	}
	return requests, s.now, nil
}

func (s *fakeInitiateRequestStore) GetChangedSince(siteId string, since int64) ([]*model.InitiateRequest, int64, *model.AppError) {
	requests := []*model.InitiateRequest{}
	for _, request := range s.requests {
		if request.ChangeTime > since {
			requests = append(requests, request.DeepCopy())
		}
	}
	return requests, s.now, nil
}

func (s *fakeInitiateRequestStore) Remove(requestId string, removeTime int64) *model.AppError {
	if request, ok := s.requests[requestId]; ok {
		request.IsRemoved = true
		request.ChangeTime = removeTime
		if removeTime > s.now {
			s.now = removeTime
		}
	}
	return nil
}

type fakeChatMessageStore struct {
	messages map[string][]*model.ChatMessage // roomId -> messages
}

func newFakeChatMessageStore() *fakeChatMessageStore {
	return &fakeChatMessageStore{messages: make(map[string][]*model.ChatMessage)}
}

func (s *fakeChatMessageStore) Save(message *model.ChatMessage) (*model.ChatMessage, *model.AppError) {
	s.messages[message.RoomId] = append(s.messages[message.RoomId], message)
	return message, nil
}

func (s *fakeChatMessageStore) GetForRoom(roomId string) ([]*model.ChatMessage, *model.AppError) {
	return s.messages[roomId], nil
}

type fakeKickedUserStore struct {
	kicked []*model.KickedUser
	calls  int
}

func (s *fakeKickedUserStore) Save(kicked *model.KickedUser) (*model.KickedUser, *model.AppError) {
	s.kicked = append(s.kicked, kicked)
	return kicked, nil
}

func (s *fakeKickedUserStore) GetAllActive() ([]*model.KickedUser, *model.AppError) {
	s.calls++
	return s.kicked, nil
}

type fakeSupportStore struct {
	userIds map[string][]string
	calls   int
}

func (s *fakeSupportStore) GetOnlineSupportUserIds(siteId string) ([]string, *model.AppError) {
	s.calls++
	return s.userIds[siteId], nil
}

type fakeSystemStore struct {
	now int64
}

func (s *fakeSystemStore) Now() (int64, *model.AppError) {
	return s.now, nil
}

// fakeStore bundles the fakes into a full store.Store for registry
// level tests.
type fakeStore struct {
	room         *fakeRoomStore
	onlineUser   *fakeOnlineUserStore
	initiate     *fakeInitiateRequestStore
	chatMessage  *fakeChatMessageStore
	kicked       *fakeKickedUserStore
	notification *fakeNotificationStore
	support      *fakeSupportStore
	rights       *fakeRightsStore
	system       *fakeSystemStore
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		room:         newFakeRoomStore(),
		onlineUser:   newFakeOnlineUserStore(),
		initiate:     newFakeInitiateRequestStore(),
		chatMessage:  newFakeChatMessageStore(),
		kicked:       &fakeKickedUserStore{},
		notification: newFakeNotificationStore(),
		support:      &fakeSupportStore{userIds: make(map[string][]string)},
		rights:       newFakeRightsStore(),
		system:       &fakeSystemStore{now: 1000},
	}
}

type fakeMetrics struct {
	refreshes map[string]int
	rejected  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		refreshes: make(map[string]int),
		rejected:  make(map[string]int),
	}
}

func (m *fakeMetrics) StartServer() {}
func (m *fakeMetrics) StopServer()  {}

func (m *fakeMetrics) IncrementChatCacheRefreshCounter(cacheName string) {
	m.refreshes[cacheName]++
}

func (m *fakeMetrics) IncrementFloodRejectedCounter(operation string) {
	m.rejected[operation]++
}

func (m *fakeMetrics) ObserveApiEndpointDuration(endpoint string, method string, elapsed float64) {}

func (s *fakeStore) Room() store.RoomStore                       { return s.room }
func (s *fakeStore) OnlineUser() store.OnlineUserStore           { return s.onlineUser }
func (s *fakeStore) InitiateRequest() store.InitiateRequestStore { return s.initiate }
func (s *fakeStore) ChatMessage() store.ChatMessageStore         { return s.chatMessage }
func (s *fakeStore) KickedUser() store.KickedUserStore           { return s.kicked }
func (s *fakeStore) Notification() store.NotificationStore       { return s.notification }
func (s *fakeStore) Support() store.SupportStore                 { return s.support }
func (s *fakeStore) Rights() store.RightsStore                   { return s.rights }
func (s *fakeStore) System() store.SystemStore                   { return s.system }
func (s *fakeStore) Close()                                      {}
func (s *fakeStore) DropAllTables()                              {}
func (s *fakeStore) TotalMasterDbConnections() int               { return 1 }

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
	"net/http"
	"unicode/utf8"
)

const (
	ROOM_NAME_MAX_LENGTH = 64

	ROOM_CACHE_SIZE = 25000
)

// AdminLevel is the caller's standing in a room, resolved by the rights
// provider. Levels are ordered: a higher level implies every lower one.
type AdminLevel int

const (
	ADMIN_LEVEL_NONE AdminLevel = iota
	ADMIN_LEVEL_JOIN
	ADMIN_LEVEL_MODERATOR
	ADMIN_LEVEL_ADMIN
)

type Room struct {
	Id             string `json:"id"`
	SiteId         string `json:"site_id"`
	Name           string `json:"name"`
	IsPrivate      bool   `json:"is_private"`
	IsOneToOne     bool   `json:"is_one_to_one"`
	Enabled        bool   `json:"enabled"`
	AllowAnonymous bool   `json:"allow_anonymous"`
	// LastModification advances when any field of the room changes.
	// PrivateStateLastModification advances only when IsPrivate flips.
	// Both are sourced from the store clock, not the local one.
	LastModification             int64 `json:"last_modification"`
	PrivateStateLastModification int64 `json:"private_state_last_modification"`
	CreateAt                     int64 `json:"create_at"`
	DeleteAt                     int64 `json:"delete_at"`
}

// RoomAdminLevel pairs a room with the admin level a rights change
// granted or revoked for a specific user.
type RoomAdminLevel struct {
	RoomId     string     `json:"room_id"`
	AdminLevel AdminLevel `json:"admin_level"`
}

// RoomsView is what a polling client receives: the rooms it may see,
// tombstones for rooms it must forget, admin levels that changed for it,
// and the high-water mark it must echo on its next poll.
type RoomsView struct {
	Rooms          []*Room               `json:"rooms"`
	RemovedRoomIds []string              `json:"removed_room_ids,omitempty"`
	AdminLevels    map[string]AdminLevel `json:"admin_levels,omitempty"`
	LastChange     int64                 `json:"last_change"`
}

func (o *Room) IsValid() *AppError {
	if !IsValidId(o.Id) {
		return NewAppError("Room.IsValid", "model.room.is_valid.id.app_error", nil, "", http.StatusBadRequest)
	}

	if !IsValidId(o.SiteId) {
		return NewAppError("Room.IsValid", "model.room.is_valid.site_id.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if utf8.RuneCountInString(o.Name) > ROOM_NAME_MAX_LENGTH || o.Name == "" {
		return NewAppError("Room.IsValid", "model.room.is_valid.name.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	return nil
}

func (o *Room) PreSave() {
	if o.Id == "" {
		o.Id = NewId()
	}

	if o.CreateAt == 0 {
		o.CreateAt = GetMillis()
	}
}

func (o *Room) DeepCopy() *Room {
	copy := *o
	return &copy
}

func (o *Room) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func RoomFromJson(data io.Reader) *Room {
	var o *Room
	json.NewDecoder(data).Decode(&o)
	return o
}

func RoomListToJson(rooms []*Room) string {
	b, _ := json.Marshal(rooms)
	return string(b)
}

func RoomListFromJson(data io.Reader) []*Room {
	var rooms []*Room
	json.NewDecoder(data).Decode(&rooms)
	return rooms
}

func (o *RoomsView) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func RoomsViewFromJson(data io.Reader) *RoomsView {
	var o *RoomsView
	json.NewDecoder(data).Decode(&o)
	return o
}

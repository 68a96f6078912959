// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIsValid(t *testing.T) {
	room := Room{}
	require.NotNil(t, room.IsValid())

	room.Id = NewId()
	require.NotNil(t, room.IsValid())

	room.SiteId = NewId()
	require.NotNil(t, room.IsValid())

	room.Name = "lobby"
	require.Nil(t, room.IsValid())

	room.Name = strings.Repeat("a", ROOM_NAME_MAX_LENGTH+1)
	appErr := room.IsValid()
	require.NotNil(t, appErr)
	assert.Equal(t, "model.room.is_valid.name.app_error", appErr.Id)
}

func TestRoomPreSave(t *testing.T) {
	room := Room{Name: "lobby"}
	room.PreSave()

	assert.True(t, IsValidId(room.Id))
	assert.NotZero(t, room.CreateAt)
}

func TestRoomDeepCopy(t *testing.T) {
	room := &Room{Id: NewId(), Name: "lobby"}

	dup := room.DeepCopy()
	dup.Name = "changed"

	assert.Equal(t, "lobby", room.Name)
}

func TestRoomsViewJson(t *testing.T) {
	view := &RoomsView{
		Rooms:          []*Room{{Id: NewId(), Name: "lobby"}},
		RemovedRoomIds: []string{NewId()},
		AdminLevels:    map[string]AdminLevel{NewId(): ADMIN_LEVEL_MODERATOR},
		LastChange:     12345,
	}

	rview := RoomsViewFromJson(strings.NewReader(view.ToJson()))
	require.NotNil(t, rview)
	assert.Equal(t, view.LastChange, rview.LastChange)
	assert.Equal(t, view.Rooms[0].Id, rview.Rooms[0].Id)
	assert.Equal(t, view.RemovedRoomIds, rview.RemovedRoomIds)
	assert.Equal(t, view.AdminLevels, rview.AdminLevels)
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
)

type OnlineUser struct {
	UserId      string `json:"user_id"`
	SiteId      string `json:"site_id"`
	Nickname    string `json:"nickname"`
	IsHidden    bool   `json:"is_hidden"`
	IsAnonymous bool   `json:"is_anonymous"`
	ChangeTime  int64  `json:"change_time"`
	// IsRemoved marks a tombstone row in changed-since result sets: the
	// user's online record is gone (ping timeout or explicit logout).
	IsRemoved bool `json:"is_removed,omitempty"`
}

// OnlineUsersView carries one poll's worth of online-user data back to a
// client: full snapshot on the first request, delta afterwards.
type OnlineUsersView struct {
	Users          []*OnlineUser `json:"users"`
	RemovedUserIds []string      `json:"removed_user_ids,omitempty"`
	LastChange     int64         `json:"last_change"`
}

func (o *OnlineUser) DeepCopy() *OnlineUser {
	copy := *o
	return &copy
}

func (o *OnlineUser) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func OnlineUserFromJson(data io.Reader) *OnlineUser {
	var o *OnlineUser
	json.NewDecoder(data).Decode(&o)
	return o
}

func OnlineUserListToJson(u []*OnlineUser) string {
	b, _ := json.Marshal(u)
	return string(b)
}

func OnlineUserListFromJson(data io.Reader) []*OnlineUser {
	var users []*OnlineUser
	json.NewDecoder(data).Decode(&users)
	return users
}

func (o *OnlineUsersView) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func OnlineUsersViewFromJson(data io.Reader) *OnlineUsersView {
	var o *OnlineUsersView
	json.NewDecoder(data).Decode(&o)
	return o
}

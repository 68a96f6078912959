// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
)

// KickedUser is an active ban: the user may not rejoin chat until
// ExpiresAt (store-clock milliseconds) has passed.
type KickedUser struct {
	UserId    string `json:"user_id"`
	SiteId    string `json:"site_id"`
	RoomId    string `json:"room_id,omitempty"`
	KickedAt  int64  `json:"kicked_at"`
	ExpiresAt int64  `json:"expires_at"`
}

func (o *KickedUser) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func KickedUserFromJson(data io.Reader) *KickedUser {
	var o *KickedUser
	json.NewDecoder(data).Decode(&o)
	return o
}

func KickedUserListFromJson(data io.Reader) []*KickedUser {
	var kicked []*KickedUser
	json.NewDecoder(data).Decode(&kicked)
	return kicked
}

// KickedStatus is the poll answer for a single user. SecondsLeft is -1
// when the user is not banned.
type KickedStatus struct {
	Kicked      bool `json:"kicked"`
	SecondsLeft int  `json:"seconds_left"`
}

func (o *KickedStatus) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func KickedStatusFromJson(data io.Reader) *KickedStatus {
	var o *KickedStatus
	json.NewDecoder(data).Decode(&o)
	return o
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
)

const (
	NOTIFICATION_TYPE_INVITE    = "invite"
	NOTIFICATION_TYPE_MENTION   = "mention"
	NOTIFICATION_TYPE_KICKED    = "kicked"
	NOTIFICATION_TYPE_INITIATED = "initiated"
)

type Notification struct {
	Id         string    `json:"id"`
	UserId     string    `json:"user_id"`
	SiteId     string    `json:"site_id"`
	Type       string    `json:"type"`
	Data       StringMap `json:"data,omitempty"`
	ChangeTime int64     `json:"change_time"`
}

func (o *Notification) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func NotificationFromJson(data io.Reader) *Notification {
	var o *Notification
	json.NewDecoder(data).Decode(&o)
	return o
}

func NotificationListToJson(n []*Notification) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func NotificationListFromJson(data io.Reader) []*Notification {
	var notifications []*Notification
	json.NewDecoder(data).Decode(&notifications)
	return notifications
}

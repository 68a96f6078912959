// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
)

// InitiateRequest is a pending 1:1 chat-initiation handshake. The same
// request is reachable by the contact who was invited and by the user who
// sent the invitation, so it is cached under both keys.
type InitiateRequest struct {
	Id         string `json:"id"`
	SiteId     string `json:"site_id"`
	ContactId  string `json:"contact_id"`
	UserId     string `json:"user_id"`
	RoomId     string `json:"room_id"`
	ChangeTime int64  `json:"change_time"`
	IsRemoved  bool   `json:"is_removed,omitempty"`

	// Messages is the transcript so far, attached on read; it is never
	// persisted with the request row itself.
	Messages []*ChatMessage `json:"messages,omitempty" db:"-"`
}

func (o *InitiateRequest) DeepCopy() *InitiateRequest {
	copy := *o
	if o.Messages != nil {
		copy.Messages = make([]*ChatMessage, len(o.Messages))
		for i, m := range o.Messages {
			copy.Messages[i] = m.DeepCopy()
		}
	}
	return &copy
}

func (o *InitiateRequest) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func InitiateRequestFromJson(data io.Reader) *InitiateRequest {
	var o *InitiateRequest
	json.NewDecoder(data).Decode(&o)
	return o
}

// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
	"net/http"
	"unicode/utf8"
)

const CHAT_MESSAGE_MAX_RUNES = 4000

type ChatMessage struct {
	Id       string `json:"id"`
	RoomId   string `json:"room_id"`
	UserId   string `json:"user_id"`
	Message  string `json:"message"`
	CreateAt int64  `json:"create_at"`
}

func (o *ChatMessage) IsValid() *AppError {
	if !IsValidId(o.Id) {
		return NewAppError("ChatMessage.IsValid", "model.chat_message.is_valid.id.app_error", nil, "", http.StatusBadRequest)
	}

	if !IsValidId(o.RoomId) {
		return NewAppError("ChatMessage.IsValid", "model.chat_message.is_valid.room_id.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if utf8.RuneCountInString(o.Message) > CHAT_MESSAGE_MAX_RUNES {
		return NewAppError("ChatMessage.IsValid", "model.chat_message.is_valid.message.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	return nil
}

func (o *ChatMessage) PreSave() {
	if o.Id == "" {
		o.Id = NewId()
	}

	if o.CreateAt == 0 {
		o.CreateAt = GetMillis()
	}
}

func (o *ChatMessage) DeepCopy() *ChatMessage {
	copy := *o
	return &copy
}

func (o *ChatMessage) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func ChatMessageFromJson(data io.Reader) *ChatMessage {
	var o *ChatMessage
	json.NewDecoder(data).Decode(&o)
	return o
}

func ChatMessageListToJson(m []*ChatMessage) string {
	b, _ := json.Marshal(m)
	return string(b)
}

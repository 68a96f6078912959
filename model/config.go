// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"encoding/json"
	"io"
	"net/http"
)

const (
	DATABASE_DRIVER_MYSQL    = "mysql"
	DATABASE_DRIVER_POSTGRES = "postgres"

	SQL_SETTINGS_DEFAULT_DATA_SOURCE = "sitechat:sitechat@tcp(localhost:3306)/sitechat?charset=utf8mb4,utf8&readTimeout=30s&writeTimeout=30s"

	SERVICE_SETTINGS_DEFAULT_LISTEN_ADDRESS = ":8065"

	DEFAULT_LOCALE = "en"

	// Flood-protected operation kinds. An operation with no configured
	// interval, or an interval <= 0, is not protected at all.
	FLOOD_OP_MESSAGE       = "message"
	FLOOD_OP_INITIATE_CHAT = "initiate_chat"
	FLOOD_OP_JOIN_ROOM     = "join_room"
	FLOOD_OP_SEARCH        = "search"
)

type ServiceSettings struct {
	ListenAddress *string `restricted:"true"`
	SiteURL       *string `restricted:"true"`
}

func (s *ServiceSettings) SetDefaults() {
	if s.ListenAddress == nil {
		s.ListenAddress = NewString(SERVICE_SETTINGS_DEFAULT_LISTEN_ADDRESS)
	}

	if s.SiteURL == nil {
		s.SiteURL = NewString("")
	}
}

type SqlSettings struct {
	DriverName                  *string `restricted:"true"`
	DataSource                  *string `restricted:"true"`
	MaxIdleConns                *int    `restricted:"true"`
	MaxOpenConns                *int    `restricted:"true"`
	QueryTimeout                *int    `restricted:"true"`
	ConnMaxLifetimeMilliseconds *int    `restricted:"true"`
	Trace                       *bool   `restricted:"true"`
}

func (s *SqlSettings) SetDefaults() {
	if s.DriverName == nil {
		s.DriverName = NewString(DATABASE_DRIVER_MYSQL)
	}

	if s.DataSource == nil {
		s.DataSource = NewString(SQL_SETTINGS_DEFAULT_DATA_SOURCE)
	}

	if s.MaxIdleConns == nil {
		s.MaxIdleConns = NewInt(20)
	}

	if s.MaxOpenConns == nil {
		s.MaxOpenConns = NewInt(300)
	}

	if s.QueryTimeout == nil {
		s.QueryTimeout = NewInt(30)
	}

	if s.ConnMaxLifetimeMilliseconds == nil {
		s.ConnMaxLifetimeMilliseconds = NewInt(3600000)
	}

	if s.Trace == nil {
		s.Trace = NewBool(false)
	}
}

type LogSettings struct {
	EnableConsole *bool
	ConsoleLevel  *string
	ConsoleJson   *bool
	EnableFile    *bool
	FileLevel     *string
	FileJson      *bool
	FileLocation  *string
}

func (s *LogSettings) SetDefaults() {
	if s.EnableConsole == nil {
		s.EnableConsole = NewBool(true)
	}

	if s.ConsoleLevel == nil {
		s.ConsoleLevel = NewString("INFO")
	}

	if s.ConsoleJson == nil {
		s.ConsoleJson = NewBool(true)
	}

	if s.EnableFile == nil {
		s.EnableFile = NewBool(false)
	}

	if s.FileLevel == nil {
		s.FileLevel = NewString("INFO")
	}

	if s.FileJson == nil {
		s.FileJson = NewBool(true)
	}

	if s.FileLocation == nil {
		s.FileLocation = NewString("")
	}
}

// ChatSettings tunes the chat cache family. The online-users TTL must
// stay under half the client ping interval so a silent user is reported
// offline after at most one missed ping plus one refresh.
type ChatSettings struct {
	ClientPingIntervalSeconds  *int
	RoomsMaxDelaySeconds       *int
	OnlineUsersCacheSeconds    *int
	NotificationsCacheSeconds  *int
	InitiatedChatsCacheSeconds *int
	SupportCacheSeconds        *int
	KickedUsersCacheSeconds    *int
	OneToOneRoomCacheSize      *int
}

func (s *ChatSettings) SetDefaults() {
	if s.ClientPingIntervalSeconds == nil {
		s.ClientPingIntervalSeconds = NewInt(15)
	}

	if s.RoomsMaxDelaySeconds == nil {
		s.RoomsMaxDelaySeconds = NewInt(9)
	}

	if s.OnlineUsersCacheSeconds == nil {
		s.OnlineUsersCacheSeconds = NewInt(*s.ClientPingIntervalSeconds/2 - 1)
	}

	if s.NotificationsCacheSeconds == nil {
		s.NotificationsCacheSeconds = NewInt(30)
	}

	if s.InitiatedChatsCacheSeconds == nil {
		s.InitiatedChatsCacheSeconds = NewInt(*s.ClientPingIntervalSeconds/2 - 1)
	}

	if s.SupportCacheSeconds == nil {
		s.SupportCacheSeconds = NewInt(60)
	}

	if s.KickedUsersCacheSeconds == nil {
		s.KickedUsersCacheSeconds = NewInt(10)
	}

	if s.OneToOneRoomCacheSize == nil {
		s.OneToOneRoomCacheSize = NewInt(ROOM_CACHE_SIZE)
	}
}

type FloodSettings struct {
	MessageIntervalSeconds      *float64
	InitiateChatIntervalSeconds *float64
	JoinRoomIntervalSeconds     *float64
	SearchIntervalSeconds       *float64
}

func (s *FloodSettings) SetDefaults() {
	if s.MessageIntervalSeconds == nil {
		s.MessageIntervalSeconds = NewFloat64(1)
	}

	if s.InitiateChatIntervalSeconds == nil {
		s.InitiateChatIntervalSeconds = NewFloat64(10)
	}

	if s.JoinRoomIntervalSeconds == nil {
		s.JoinRoomIntervalSeconds = NewFloat64(2)
	}

	if s.SearchIntervalSeconds == nil {
		s.SearchIntervalSeconds = NewFloat64(1)
	}
}

// IntervalSeconds maps an operation kind to its configured minimum
// interval. Unknown kinds get 0, which disables protection for them.
func (s *FloodSettings) IntervalSeconds(operation string) float64 {
	switch operation {
	case FLOOD_OP_MESSAGE:
		return *s.MessageIntervalSeconds
	case FLOOD_OP_INITIATE_CHAT:
		return *s.InitiateChatIntervalSeconds
	case FLOOD_OP_JOIN_ROOM:
		return *s.JoinRoomIntervalSeconds
	case FLOOD_OP_SEARCH:
		return *s.SearchIntervalSeconds
	}
	return 0
}

type Config struct {
	ServiceSettings ServiceSettings
	SqlSettings     SqlSettings
	LogSettings     LogSettings
	ChatSettings    ChatSettings
	FloodSettings   FloodSettings
}

func (o *Config) Clone() *Config {
	var ret Config
	if err := json.Unmarshal([]byte(o.ToJson()), &ret); err != nil {
		panic(err)
	}
	return &ret
}

func (o *Config) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func ConfigFromJson(data io.Reader) *Config {
	var o *Config
	json.NewDecoder(data).Decode(&o)
	return o
}

func (o *Config) SetDefaults() {
	o.ServiceSettings.SetDefaults()
	o.SqlSettings.SetDefaults()
	o.LogSettings.SetDefaults()
	o.ChatSettings.SetDefaults()
	o.FloodSettings.SetDefaults()
}

func (o *Config) IsValid() *AppError {
	if *o.SqlSettings.DriverName != DATABASE_DRIVER_MYSQL && *o.SqlSettings.DriverName != DATABASE_DRIVER_POSTGRES {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_driver.app_error", nil, "", http.StatusBadRequest)
	}

	if *o.SqlSettings.MaxOpenConns <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.sql_max_conn.app_error", nil, "", http.StatusBadRequest)
	}

	if *o.ChatSettings.ClientPingIntervalSeconds <= 0 {
		return NewAppError("Config.IsValid", "model.config.is_valid.chat_ping_interval.app_error", nil, "", http.StatusBadRequest)
	}

	if *o.ChatSettings.OnlineUsersCacheSeconds*2 >= *o.ChatSettings.ClientPingIntervalSeconds {
		return NewAppError("Config.IsValid", "model.config.is_valid.chat_online_cache.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}
